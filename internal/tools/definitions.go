package tools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterAll registers every tool in its canonical order. The listing order
// is part of the tool surface: clients see login first, discovery tools next,
// then the five strategy-creation tools, then strategy management.
func RegisterAll(r *Registry, ts *Toolset) {
	r.Register(createLoginTool(), handleLogin(ts))
	r.Register(createGetProjectsTool(), handleGetProjects(ts))
	r.Register(createGetTokensTool(), handleGetTokens(ts))
	r.Register(createGetWalletsTool(), handleGetWallets(ts))
	r.Register(createPriceStrategyTool(), handleCreateStrategy(ts, priceStrategySpec))
	r.Register(createTimeStrategyTool(), handleCreateStrategy(ts, timeStrategySpec))
	r.Register(createMarketManipulationStrategyTool(), handleCreateStrategy(ts, marketManipulationSpec))
	r.Register(createPortfolioExchangeStrategyTool(), handleCreateStrategy(ts, portfolioExchangeSpec))
	r.Register(createBundleSwapStrategyTool(), handleCreateStrategy(ts, bundleSwapSpec))
	r.Register(createGetStrategiesTool(), handleGetStrategies(ts))
	r.Register(createDeleteStrategyTool(), handleDeleteStrategy(ts))
}

// --- Tool definitions ---

func createLoginTool() mcp.Tool {
	return mcp.NewTool("login",
		mcp.WithDescription("Log in to the trading platform with email and password. Must be called before any other tool; all other tools require an authenticated session."),
		mcp.WithString("email", mcp.Required(), mcp.Description("Account email address")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Account password")),
	)
}

func createGetProjectsTool() mcp.Tool {
	return mcp.NewTool("getProjects",
		mcp.WithDescription("List the active projects of the logged-in account. Returns project names and ids; only active projects are included."),
	)
}

func createGetTokensTool() mcp.Tool {
	return mcp.NewTool("getTokens",
		mcp.WithDescription("List the active tokens of a project. Each token is annotated with its tradingType: 'inside' for pump (bonding curve) pools, 'outside' for external liquidity pools. The tradingType decides whether slippage applies when creating strategies."),
		mcp.WithString("projectId", mcp.Required(), mcp.Description("Project id from getProjects")),
		mcp.WithNumber("page", mcp.DefaultNumber(1), mcp.Description("Page number, starting at 1")),
		mcp.WithNumber("limit", mcp.DefaultNumber(10000), mcp.Description("Page size (max 10000)")),
	)
}

func createGetWalletsTool() mcp.Tool {
	return mcp.NewTool("getWallets",
		mcp.WithDescription("List the wallets of a project usable for a trade. Decide the strategy type and trade side FIRST: for buying, only wallets with a SOL balance are returned; for selling, only wallets that also hold the token."),
		mcp.WithString("projectId", mcp.Required(), mcp.Description("Project id from getProjects")),
		mcp.WithString("tokenId", mcp.Required(), mcp.Description("Token id from getTokens")),
		mcp.WithString("side", mcp.Required(), mcp.Enum("buy", "sell"), mcp.Description("Intended trade direction")),
		mcp.WithString("strategyType", mcp.Required(),
			mcp.Enum("PRICE_BASED", "TIME_BASED", "MARKET_MANIPULATION", "PORTFOLIO_EXCHANGE", "BUNDLE_SWAP"),
			mcp.Description("The strategy kind the wallets are for")),
		mcp.WithNumber("page", mcp.DefaultNumber(1), mcp.Description("Page number, starting at 1")),
		mcp.WithNumber("limit", mcp.Description("Page size (defaults to the configured wallet cap)")),
	)
}

func createPriceStrategyTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Create a price-triggered strategy: trades execute when the token price crosses the target price. Buy strategies fire when the price drops to the target; sell strategies when it rises to it."),
	}
	opts = append(opts, strategyArgs(
		mcp.WithNumber("targetPrice", mcp.Required(), mcp.Description("Trigger price in SOL, must be greater than 0")),
		mcp.WithNumber("priceThresholdPercent", mcp.Description("Tolerance band around the target price in percent, 0 to 100 (default 0)")),
	)...)
	return mcp.NewTool("createPriceStrategy", opts...)
}

func createTimeStrategyTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Create a time-triggered strategy: trades execute at the scheduled time. The execute time should be at least 3 minutes in the future."),
	}
	opts = append(opts, strategyArgs(executeAtArg(true))...)
	return mcp.NewTool("createTimeStrategy", opts...)
}

func createMarketManipulationStrategyTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Create a market manipulation strategy: a coordinated pump (side=buy) or dump (side=sell) across the chosen wallets at the scheduled time. The execute time should be at least 3 minutes in the future."),
	}
	opts = append(opts, strategyArgs(executeAtArg(true))...)
	return mcp.NewTool("createMarketManipulationStrategy", opts...)
}

func createPortfolioExchangeStrategyTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Create a portfolio exchange strategy: redistributes token holdings across the chosen wallets at the scheduled time. The execute time should be at least 3 minutes in the future."),
	}
	opts = append(opts, strategyArgs(executeAtArg(true))...)
	return mcp.NewTool("createPortfolioExchangeStrategy", opts...)
}

func createBundleSwapStrategyTool() mcp.Tool {
	return mcp.NewTool("createBundleSwapStrategy",
		mcp.WithDescription("Create a bundle swap strategy: cycles trades between a buy wallet and a sell wallet for a number of cycles. Runs immediately unless an execute time is given; if given, it should be at least 3 minutes in the future."),
		mcp.WithString("tokenId", mcp.Required(), mcp.Description("Token id from getTokens")),
		mcp.WithString("tradingType", mcp.Required(), mcp.Enum("inside", "outside"), mcp.Description("Token trading type from getTokens")),
		mcp.WithString("buyWalletId", mcp.Required(), mcp.Description("Wallet that buys each cycle")),
		mcp.WithString("sellWalletId", mcp.Required(), mcp.Description("Wallet that sells each cycle; must differ from buyWalletId")),
		mcp.WithNumber("minTradeAmount", mcp.Required(), mcp.Description("Minimum SOL amount per trade, greater than 0")),
		mcp.WithNumber("maxTradeAmount", mcp.Required(), mcp.Description("Maximum SOL amount per trade, greater than minTradeAmount")),
		mcp.WithNumber("maxCycles", mcp.Required(), mcp.Description("Number of buy/sell cycles, at least 1")),
		executeAtArg(false),
		mcp.WithNumber("minInterval", mcp.Description("Minimum seconds between trades, 1 to 3600 (default 1)")),
		mcp.WithNumber("maxInterval", mcp.Description("Maximum seconds between trades, 1 to 3600 (default 2)")),
		mcp.WithNumber("tipAmount", mcp.Description("Priority tip in SOL (default 0.001)")),
		mcp.WithNumber("slippageBps", mcp.Description("Slippage tolerance in basis points, 0 to 10000; only applied for outside tokens (default 100)")),
	)
}

func createGetStrategiesTool() mcp.Tool {
	return mcp.NewTool("getStrategies",
		mcp.WithDescription("List the strategies of a project with their ids, types and statuses."),
		mcp.WithString("projectId", mcp.Required(), mcp.Description("Project id from getProjects")),
		mcp.WithNumber("page", mcp.DefaultNumber(1), mcp.Description("Page number, starting at 1")),
		mcp.WithNumber("limit", mcp.DefaultNumber(20), mcp.Description("Page size (max 10000)")),
	)
}

func createDeleteStrategyTool() mcp.Tool {
	return mcp.NewTool("deleteStrategy",
		mcp.WithDescription("Delete a strategy by id. Deletion is permanent; confirm the strategy id with getStrategies first."),
		mcp.WithString("strategyId", mcp.Required(), mcp.Description("Strategy id from getStrategies")),
	)
}

// strategyArgs returns the argument set shared by the wallet-list strategy
// kinds, with any kind-specific arguments prepended after tokenId.
func strategyArgs(extra ...mcp.ToolOption) []mcp.ToolOption {
	opts := []mcp.ToolOption{
		mcp.WithString("tokenId", mcp.Required(), mcp.Description("Token id from getTokens")),
		mcp.WithString("side", mcp.Required(), mcp.Enum("buy", "sell"), mcp.Description("Trade direction")),
		mcp.WithString("tradingType", mcp.Required(), mcp.Enum("inside", "outside"), mcp.Description("Token trading type from getTokens")),
	}
	opts = append(opts, extra...)
	opts = append(opts,
		mcp.WithArray("walletIds", mcp.WithStringItems(), mcp.Required(), mcp.Description("Wallet ids from getWallets, at least one")),
		mcp.WithString("amountType", mcp.Required(), mcp.Enum("fixed", "range", "random"), mcp.Description("Trade-size mode: fixed amount, balance-ratio range, or random amount range")),
		mcp.WithNumber("amount", mcp.Description("SOL amount per trade (amountType=fixed), greater than 0")),
		mcp.WithNumber("minRatio", mcp.Description("Minimum balance percentage per trade, 0 to 100 (amountType=range)")),
		mcp.WithNumber("maxRatio", mcp.Description("Maximum balance percentage per trade, 0 to 100 (amountType=range)")),
		mcp.WithNumber("minAmount", mcp.Description("Minimum SOL amount per trade (amountType=random), greater than 0")),
		mcp.WithNumber("maxAmount", mcp.Description("Maximum SOL amount per trade (amountType=random), greater than minAmount")),
		mcp.WithNumber("minInterval", mcp.Description("Minimum seconds between trades, 1 to 3600 (default 1)")),
		mcp.WithNumber("maxInterval", mcp.Description("Maximum seconds between trades, 1 to 3600 (default 2)")),
		mcp.WithNumber("tipAmount", mcp.Description("Priority tip in SOL (default 0.001)")),
		mcp.WithNumber("slippageBps", mcp.Description("Slippage tolerance in basis points, 0 to 10000; only applied for outside tokens (default 100)")),
	)
	return opts
}

func executeAtArg(required bool) mcp.ToolOption {
	desc := mcp.Description("Execution time, format '2006-01-02 15:04:05' (local) or RFC3339. Should be at least 3 minutes in the future.")
	if required {
		return mcp.WithString("executeAt", mcp.Required(), desc)
	}
	return mcp.WithString("executeAt", desc)
}

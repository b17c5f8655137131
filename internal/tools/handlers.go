package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hesiyuetian/mm-mcp/internal/common"
	"github.com/hesiyuetian/mm-mcp/internal/gateway"
	"github.com/hesiyuetian/mm-mcp/internal/session"
	"github.com/hesiyuetian/mm-mcp/internal/strategy"
	"github.com/hesiyuetian/mm-mcp/internal/validate"
)

// ErrAuthRequired is returned by every tool except login when no session has
// been established yet.
var ErrAuthRequired = errors.New("not logged in, please log in first")

// Toolset bundles the dependencies the tool handlers share.
type Toolset struct {
	api     *gateway.Client
	session *session.Session
	cfg     *common.Config
	logger  *common.Logger
}

// NewToolset creates the handler dependency bundle.
func NewToolset(api *gateway.Client, sess *session.Session, cfg *common.Config, logger *common.Logger) *Toolset {
	return &Toolset{api: api, session: sess, cfg: cfg, logger: logger}
}

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

func (ts *Toolset) requireAuth() error {
	if !ts.session.Authenticated() {
		return ErrAuthRequired
	}
	return nil
}

// optFloat reads an optional numeric argument, distinguishing absent from
// zero. JSON numbers arrive as float64; json.Number shows up when a client
// uses a decoding mode that preserves precision.
func optFloat(request mcp.CallToolRequest, key string) *float64 {
	v, ok := request.GetArguments()[key]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return &f
		}
	}
	return nil
}

func optInt(request mcp.CallToolRequest, key string) *int {
	f := optFloat(request, key)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

func validStrategyType(t string) bool {
	for _, k := range strategy.Kinds {
		if k.Tag == t {
			return true
		}
	}
	return false
}

// --- Strategy tool specs ---

// strategySpec binds a strategy kind to its display label.
type strategySpec struct {
	kind  strategy.Kind
	label string
}

var (
	priceStrategySpec      = strategySpec{kind: strategy.PriceBased, label: "Price strategy"}
	timeStrategySpec       = strategySpec{kind: strategy.TimeBased, label: "Time strategy"}
	marketManipulationSpec = strategySpec{kind: strategy.MarketManipulation, label: "Market manipulation strategy"}
	portfolioExchangeSpec  = strategySpec{kind: strategy.PortfolioExchange, label: "Portfolio exchange strategy"}
	bundleSwapSpec         = strategySpec{kind: strategy.BundleSwap, label: "Bundle swap strategy"}
)

// --- Handlers ---

func handleLogin(ts *Toolset) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		email := request.GetString("email", "")
		password := request.GetString("password", "")
		if err := validate.Login(email, password); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		result, err := ts.api.Login(ctx, email, password)
		if err != nil {
			return errorResult(fmt.Sprintf("Login error: %v", err)), nil
		}
		if result.AccessToken == "" {
			msg := result.Message
			if msg == "" {
				msg = "login failed"
			}
			return errorResult(fmt.Sprintf("Login failed: %s", msg)), nil
		}

		ts.api.SetToken(result.AccessToken)
		ts.session.Establish(result.AccessToken, result.User)
		ts.logger.Info().Str("email", email).Msg("Session Established")

		return textResult(formatLogin(result)), nil
	}
}

func handleGetProjects(ts *Toolset) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := ts.requireAuth(); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		projects, err := ts.api.GetProjects(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(formatProjects(projects)), nil
	}
}

func handleGetTokens(ts *Toolset) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := ts.requireAuth(); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		projectID := request.GetString("projectId", "")
		if err := validate.ProjectID(projectID); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		page := request.GetInt("page", 1)
		limit := request.GetInt("limit", 10000)
		if err := validate.Pagination(page, limit); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		tokens, err := ts.api.GetTokens(ctx, projectID, page, limit)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(formatTokens(tokens)), nil
	}
}

func handleGetWallets(ts *Toolset) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := ts.requireAuth(); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		projectID := request.GetString("projectId", "")
		if err := validate.ProjectID(projectID); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		tokenID := request.GetString("tokenId", "")
		if err := validate.TokenID(tokenID); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		side := request.GetString("side", "")
		if err := validate.Side(side); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		if t := request.GetString("strategyType", ""); !validStrategyType(t) {
			return errorResult("Error: unknown strategy type, decide the strategy kind before picking wallets"), nil
		}

		page := request.GetInt("page", 1)
		if err := validate.Page(page); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		maxWallets := ts.cfg.Strategy.MaxWalletCount
		limit := request.GetInt("limit", maxWallets)
		if limit < 1 || limit > maxWallets {
			return errorResult(fmt.Sprintf("Error: limit must be between 1 and %d", maxWallets)), nil
		}

		wallets, err := ts.api.GetWallets(ctx, projectID, tokenID, side, page, limit)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(formatWallets(wallets, side)), nil
	}
}

// handleCreateStrategy serves all five creation tools; the bound kind decides
// which fields are parsed, validated and forwarded.
func handleCreateStrategy(ts *Toolset, spec strategySpec) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := ts.requireAuth(); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		p := strategyParams(request, spec.kind)
		if err := validate.Strategy(p, spec.kind); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		if !spec.kind.Circular && len(p.WalletIDs) > ts.cfg.Strategy.MaxWalletCount {
			return errorResult(fmt.Sprintf("Error: at most %d wallets per strategy", ts.cfg.Strategy.MaxWalletCount)), nil
		}

		applyStrategyDefaults(&p, ts.cfg.Strategy)

		req, err := strategy.Build(spec.kind, p, strategy.Defaults{
			MinInterval: ts.cfg.Strategy.DefaultMinInterval,
			MaxInterval: ts.cfg.Strategy.DefaultMaxInterval,
		})
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		result, err := ts.api.CreateStrategy(ctx, req)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		if !result.Success {
			msg := result.Message
			if msg == "" {
				msg = "strategy creation failed"
			}
			return errorResult(fmt.Sprintf("Error: %s", msg)), nil
		}

		ts.logger.Info().Str("type", req.Type).Str("tokenId", req.TokenID).Msg("Strategy Created")
		return textResult(formatCreated(spec.label, req, result)), nil
	}
}

func handleGetStrategies(ts *Toolset) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := ts.requireAuth(); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		projectID := request.GetString("projectId", "")
		if err := validate.ProjectID(projectID); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		page := request.GetInt("page", 1)
		limit := request.GetInt("limit", 20)
		if err := validate.Pagination(page, limit); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		strategies, err := ts.api.GetStrategies(ctx, projectID, page, limit)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		return textResult(formatStrategies(strategies)), nil
	}
}

func handleDeleteStrategy(ts *Toolset) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := ts.requireAuth(); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		strategyID := request.GetString("strategyId", "")
		if err := validate.StrategyID(strategyID); err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		result, err := ts.api.DeleteStrategy(ctx, strategyID)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		if !result.Success {
			msg := result.Message
			if msg == "" {
				msg = "strategy deletion failed"
			}
			return errorResult(fmt.Sprintf("Error: %s", msg)), nil
		}

		ts.logger.Info().Str("strategyId", strategyID).Msg("Strategy Deleted")
		if result.Message != "" {
			return textResult(result.Message), nil
		}
		return textResult(fmt.Sprintf("Strategy %s deleted.", strategyID)), nil
	}
}

// strategyParams assembles the builder input from the request arguments.
func strategyParams(request mcp.CallToolRequest, kind strategy.Kind) strategy.Params {
	p := strategy.Params{
		TokenID:     request.GetString("tokenId", ""),
		TradingType: request.GetString("tradingType", ""),
		ExecuteAt:   request.GetString("executeAt", ""),
		MinInterval: optFloat(request, "minInterval"),
		MaxInterval: optFloat(request, "maxInterval"),
		TipAmount:   optFloat(request, "tipAmount"),
		SlippageBps: optFloat(request, "slippageBps"),
	}

	if kind.Circular {
		p.BuyWalletID = request.GetString("buyWalletId", "")
		p.SellWalletID = request.GetString("sellWalletId", "")
		p.MinTradeAmount = optFloat(request, "minTradeAmount")
		p.MaxTradeAmount = optFloat(request, "maxTradeAmount")
		p.MaxCycles = optInt(request, "maxCycles")
		return p
	}

	p.Side = request.GetString("side", "")
	p.WalletIDs = request.GetStringSlice("walletIds", nil)
	p.AmountType = request.GetString("amountType", "")
	p.Amount = optFloat(request, "amount")
	p.MinRatio = optFloat(request, "minRatio")
	p.MaxRatio = optFloat(request, "maxRatio")
	p.MinAmount = optFloat(request, "minAmount")
	p.MaxAmount = optFloat(request, "maxAmount")

	if kind.NeedsPrice {
		p.TargetPrice = optFloat(request, "targetPrice")
		p.PriceThresholdPercent = optFloat(request, "priceThresholdPercent")
	}
	return p
}

// applyStrategyDefaults fills configured fallbacks for tip and slippage.
// Interval defaults are handled by the builder.
func applyStrategyDefaults(p *strategy.Params, cfg common.StrategyConfig) {
	if p.TipAmount == nil && cfg.DefaultTipAmount > 0 {
		tip := cfg.DefaultTipAmount
		p.TipAmount = &tip
	}
	if p.SlippageBps == nil && cfg.DefaultSlippageBps > 0 {
		slippage := cfg.DefaultSlippageBps
		p.SlippageBps = &slippage
	}
}

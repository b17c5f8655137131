// Package strategy maps validated tool arguments into the normalized
// strategy-creation payload the remote trading API expects.
package strategy

// Kind describes one strategy variant: its wire tag and which fields the
// variant requires. All five creation tools share one handler parameterized
// by a Kind.
type Kind struct {
	Tag               string // wire value for both name and type
	NeedsPrice        bool   // targetPrice required (price-triggered)
	NeedsExecuteAt    bool   // executeAt required (time-deferred)
	ExecuteAtOptional bool   // executeAt honored when present, immediate otherwise
	Circular          bool   // two wallet roles + cycle count (bundle swap)
}

var (
	// PriceBased executes when the token price crosses a target.
	PriceBased = Kind{Tag: "PRICE_BASED", NeedsPrice: true}

	// TimeBased executes at a scheduled instant.
	TimeBased = Kind{Tag: "TIME_BASED", NeedsExecuteAt: true}

	// MarketManipulation pumps (buy) or dumps (sell) at a scheduled instant.
	MarketManipulation = Kind{Tag: "MARKET_MANIPULATION", NeedsExecuteAt: true}

	// PortfolioExchange redistributes holdings across wallets at a
	// scheduled instant.
	PortfolioExchange = Kind{Tag: "PORTFOLIO_EXCHANGE", NeedsExecuteAt: true}

	// BundleSwap cycles a buy wallet and a sell wallet against each other.
	BundleSwap = Kind{Tag: "BUNDLE_SWAP", ExecuteAtOptional: true, Circular: true}
)

// Kinds lists every strategy variant in registration order.
var Kinds = []Kind{PriceBased, TimeBased, MarketManipulation, PortfolioExchange, BundleSwap}

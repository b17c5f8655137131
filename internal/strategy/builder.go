package strategy

import (
	"fmt"
	"time"
)

// Trading direction values accepted on the wire.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Venue types. Inside is the integrated bonding-curve venue (pool type
// "pump"); outside is an external liquidity venue, where slippage applies.
const (
	TradingTypeInside  = "inside"
	TradingTypeOutside = "outside"
)

// Trade-size specification selectors.
const (
	AmountTypeFixed  = "fixed"
	AmountTypeRange  = "range"
	AmountTypeRandom = "random"
)

// executeAtLayout is the human-entered timestamp format, interpreted in
// local time and normalized to RFC3339 UTC on the wire.
const executeAtLayout = "2006-01-02 15:04:05"

// Params is the loosely-structured, already-validated input to the builder.
// Pointer fields distinguish "absent" from zero.
type Params struct {
	TokenID     string
	Side        string
	TradingType string

	TargetPrice           *float64
	PriceThresholdPercent *float64
	ExecuteAt             string

	WalletIDs    []string
	BuyWalletID  string
	SellWalletID string

	AmountType string
	Amount     *float64
	MinRatio   *float64
	MaxRatio   *float64
	MinAmount  *float64
	MaxAmount  *float64

	MinTradeAmount *float64
	MaxTradeAmount *float64
	MaxCycles      *int

	MinInterval *float64 // seconds
	MaxInterval *float64 // seconds
	TipAmount   *float64
	SlippageBps *float64
}

// Defaults supplies configured fallbacks for optional parameters.
type Defaults struct {
	MinInterval float64 // seconds
	MaxInterval float64 // seconds
}

// Request is the normalized payload for POST /strategy/createStrategy.
type Request struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	TokenID string `json:"tokenId"`
	Config  Config `json:"config"`
}

// Config is the kind-dependent strategy configuration. Interval fields are
// milliseconds on the wire; inputs arrive in seconds.
type Config struct {
	Side                  string   `json:"side,omitempty"`
	TradingType           string   `json:"tradingType"`
	TargetPrice           *float64 `json:"targetPrice,omitempty"`
	PriceThresholdPercent *float64 `json:"priceThresholdPercent,omitempty"`
	ExecuteAt             string   `json:"executeAt,omitempty"`
	WalletIDs             []string `json:"walletIds,omitempty"`
	Wallet1ID             string   `json:"wallet1Id,omitempty"`
	Wallet2ID             string   `json:"wallet2Id,omitempty"`
	Amount                *float64 `json:"amount,omitempty"`
	MinRatio              *float64 `json:"minRatio,omitempty"`
	MaxRatio              *float64 `json:"maxRatio,omitempty"`
	MinAmount             *float64 `json:"minAmount,omitempty"`
	MaxAmount             *float64 `json:"maxAmount,omitempty"`
	MinTradeAmount        *float64 `json:"minTradeAmount,omitempty"`
	MaxTradeAmount        *float64 `json:"maxTradeAmount,omitempty"`
	MaxCycles             *int     `json:"maxCycles,omitempty"`
	MinInterval           int64    `json:"minInterval"`
	MaxInterval           int64    `json:"maxInterval"`
	TipAmount             *float64 `json:"tipAmount,omitempty"`
	SlippageBps           *float64 `json:"slippageBps,omitempty"`
}

// Build assembles the normalized Request for one strategy kind. Exactly the
// trade-size fields matching AmountType are set; the others stay absent.
// Slippage is only forwarded for the outside venue type.
func Build(kind Kind, p Params, d Defaults) (*Request, error) {
	cfg := Config{
		TradingType: p.TradingType,
		MinInterval: intervalMillis(p.MinInterval, d.MinInterval),
		MaxInterval: intervalMillis(p.MaxInterval, d.MaxInterval),
	}

	if kind.Circular {
		cfg.Wallet1ID = p.BuyWalletID
		cfg.Wallet2ID = p.SellWalletID
		cfg.MaxCycles = p.MaxCycles
		cfg.MinTradeAmount = p.MinTradeAmount
		cfg.MaxTradeAmount = p.MaxTradeAmount
	} else {
		cfg.Side = p.Side
		cfg.WalletIDs = p.WalletIDs

		switch p.AmountType {
		case AmountTypeFixed:
			cfg.Amount = p.Amount
		case AmountTypeRange:
			cfg.MinRatio = p.MinRatio
			cfg.MaxRatio = p.MaxRatio
		case AmountTypeRandom:
			cfg.MinAmount = p.MinAmount
			cfg.MaxAmount = p.MaxAmount
		}
	}

	if kind.NeedsPrice {
		cfg.TargetPrice = p.TargetPrice
		threshold := 0.0
		if p.PriceThresholdPercent != nil {
			threshold = *p.PriceThresholdPercent
		}
		cfg.PriceThresholdPercent = &threshold
	}

	if kind.NeedsExecuteAt || (kind.ExecuteAtOptional && p.ExecuteAt != "") {
		at, err := normalizeExecuteAt(p.ExecuteAt)
		if err != nil {
			return nil, err
		}
		cfg.ExecuteAt = at
	}

	if p.TipAmount != nil && *p.TipAmount > 0 {
		cfg.TipAmount = p.TipAmount
	}

	if p.TradingType == TradingTypeOutside && p.SlippageBps != nil && *p.SlippageBps > 0 {
		cfg.SlippageBps = p.SlippageBps
	}

	return &Request{
		Name:    kind.Tag,
		Type:    kind.Tag,
		TokenID: p.TokenID,
		Config:  cfg,
	}, nil
}

// intervalMillis converts a seconds value (or its default) to wire
// milliseconds.
func intervalMillis(sec *float64, def float64) int64 {
	v := def
	if sec != nil {
		v = *sec
	}
	return int64(v * 1000)
}

// normalizeExecuteAt parses a caller-entered execution timestamp and
// normalizes it to RFC3339 UTC. Accepts "2006-01-02 15:04:05" (local time)
// or RFC3339.
func normalizeExecuteAt(value string) (string, error) {
	if t, err := time.ParseInLocation(executeAtLayout, value, time.Local); err == nil {
		return t.UTC().Format(time.RFC3339), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format(time.RFC3339), nil
	}
	return "", fmt.Errorf("invalid execute time %q, expected format 2006-01-02 15:04:05", value)
}

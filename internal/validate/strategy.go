package validate

import "github.com/hesiyuetian/mm-mcp/internal/strategy"

// Strategy runs the composite parameter check for one strategy kind.
// Evaluation order is fixed so failure messages are reproducible: token id,
// then side, then price, then wallets, then the trade-size specification,
// then intervals and the optional fields. The first failure wins; errors are
// never aggregated.
func Strategy(p strategy.Params, kind strategy.Kind) error {
	if err := TokenID(p.TokenID); err != nil {
		return err
	}

	if kind.Circular {
		return bundleSwap(p)
	}

	if err := Side(p.Side); err != nil {
		return err
	}
	if err := TradingType(p.TradingType); err != nil {
		return err
	}

	if kind.NeedsPrice {
		if p.TargetPrice == nil {
			return fail("targetPrice", "target price is required")
		}
		if err := Price(*p.TargetPrice); err != nil {
			return err
		}
	}

	if kind.NeedsExecuteAt && p.ExecuteAt == "" {
		return fail("executeAt", "execute time is required")
	}

	if err := WalletIDs(p.WalletIDs); err != nil {
		return err
	}

	if err := tradeSize(p); err != nil {
		return err
	}

	return shared(p)
}

// tradeSize checks exactly the fields matching the declared amount type.
func tradeSize(p strategy.Params) error {
	if err := AmountType(p.AmountType); err != nil {
		return err
	}

	switch p.AmountType {
	case strategy.AmountTypeFixed:
		if p.Amount == nil {
			return fail("amount", "amount is required for fixed amount type")
		}
		return Amount(*p.Amount)

	case strategy.AmountTypeRange:
		if p.MinRatio == nil || p.MaxRatio == nil {
			return fail("minRatio", "min and max ratio are required for range amount type")
		}
		if err := Ratio(*p.MinRatio); err != nil {
			return err
		}
		if err := Ratio(*p.MaxRatio); err != nil {
			return err
		}
		if *p.MinRatio >= *p.MaxRatio {
			return fail("minRatio", "min ratio must be less than max ratio")
		}

	case strategy.AmountTypeRandom:
		if p.MinAmount == nil || p.MaxAmount == nil {
			return fail("minAmount", "min and max amount are required for random amount type")
		}
		if err := Amount(*p.MinAmount); err != nil {
			return err
		}
		if err := Amount(*p.MaxAmount); err != nil {
			return err
		}
		if *p.MinAmount >= *p.MaxAmount {
			return fail("minAmount", "min amount must be less than max amount")
		}
	}

	return nil
}

// bundleSwap checks the circular-swap variant: two distinct wallet roles, a
// trade-amount range, and a cycle count.
func bundleSwap(p strategy.Params) error {
	if err := TradingType(p.TradingType); err != nil {
		return err
	}
	if p.BuyWalletID == "" {
		return fail("buyWalletId", "buy wallet id must not be empty")
	}
	if p.SellWalletID == "" {
		return fail("sellWalletId", "sell wallet id must not be empty")
	}
	if p.BuyWalletID == p.SellWalletID {
		return fail("sellWalletId", "buy and sell wallet must differ")
	}

	if p.MinTradeAmount == nil || p.MaxTradeAmount == nil {
		return fail("minTradeAmount", "min and max trade amount are required")
	}
	if err := Amount(*p.MinTradeAmount); err != nil {
		return err
	}
	if err := Amount(*p.MaxTradeAmount); err != nil {
		return err
	}
	if *p.MinTradeAmount >= *p.MaxTradeAmount {
		return fail("minTradeAmount", "min trade amount must be less than max trade amount")
	}

	if p.MaxCycles == nil || *p.MaxCycles < 1 {
		return fail("maxCycles", "max cycles must be at least 1")
	}

	return shared(p)
}

// shared checks the interval window and optional fields common to all kinds.
func shared(p strategy.Params) error {
	if p.MinInterval != nil {
		if err := Interval(*p.MinInterval); err != nil {
			return err
		}
	}
	if p.MaxInterval != nil {
		if err := Interval(*p.MaxInterval); err != nil {
			return err
		}
	}
	if p.MinInterval != nil && p.MaxInterval != nil && *p.MinInterval >= *p.MaxInterval {
		return fail("minInterval", "min interval must be less than max interval")
	}

	if p.TipAmount != nil {
		if err := Amount(*p.TipAmount); err != nil {
			return err
		}
	}

	if p.SlippageBps != nil {
		if err := SlippageBps(*p.SlippageBps); err != nil {
			return err
		}
	}

	if p.PriceThresholdPercent != nil {
		if err := PriceThresholdPercent(*p.PriceThresholdPercent); err != nil {
			return err
		}
	}

	return nil
}

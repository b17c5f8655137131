// Package validate rejects malformed or out-of-range tool arguments before
// any network call is made. Checks are pure: no I/O, no shared state, and
// input is never mutated. Every failure is a *ValidationError carrying a
// human-readable reason.
package validate

import (
	"fmt"
	"math"
	"regexp"

	"github.com/hesiyuetian/mm-mcp/internal/strategy"
)

// ValidationError describes a single domain-rule violation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func fail(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email checks for a standard local@domain address.
func Email(email string) error {
	if email == "" {
		return fail("email", "email must not be empty")
	}
	if !emailPattern.MatchString(email) {
		return fail("email", "invalid email format")
	}
	return nil
}

// Password checks for a non-empty password.
func Password(password string) error {
	if password == "" {
		return fail("password", "password must not be empty")
	}
	return nil
}

// Login validates login arguments: email first, then password.
func Login(email, password string) error {
	if err := Email(email); err != nil {
		return err
	}
	return Password(password)
}

// Price requires a finite value strictly greater than zero.
func Price(price float64) error {
	if !finite(price) || price <= 0 {
		return fail("targetPrice", "price must be greater than 0")
	}
	return nil
}

// Amount requires a finite value strictly greater than zero.
func Amount(amount float64) error {
	if !finite(amount) || amount <= 0 {
		return fail("amount", "amount must be greater than 0")
	}
	return nil
}

// Ratio requires a finite balance percentage in [0,100].
func Ratio(ratio float64) error {
	if !finite(ratio) || ratio < 0 || ratio > 100 {
		return fail("ratio", "ratio must be between 0 and 100")
	}
	return nil
}

// Interval requires a finite trade-interval in [1,3600] seconds.
func Interval(seconds float64) error {
	if !finite(seconds) || seconds < 1 || seconds > 3600 {
		return fail("interval", "interval must be between 1 and 3600 seconds")
	}
	return nil
}

// Side requires exactly "buy" or "sell".
func Side(side string) error {
	if side != strategy.SideBuy && side != strategy.SideSell {
		return fail("side", "side must be buy or sell")
	}
	return nil
}

// TradingType requires exactly "inside" or "outside".
func TradingType(tradingType string) error {
	if tradingType != strategy.TradingTypeInside && tradingType != strategy.TradingTypeOutside {
		return fail("tradingType", "trading type must be inside or outside")
	}
	return nil
}

// AmountType requires exactly "fixed", "range" or "random".
func AmountType(amountType string) error {
	switch amountType {
	case strategy.AmountTypeFixed, strategy.AmountTypeRange, strategy.AmountTypeRandom:
		return nil
	}
	return fail("amountType", "amount type must be fixed, range or random")
}

// WalletIDs requires a non-empty list of non-empty ids.
func WalletIDs(walletIDs []string) error {
	if len(walletIDs) == 0 {
		return fail("walletIds", "wallet id list must not be empty")
	}
	for _, id := range walletIDs {
		if id == "" {
			return fail("walletIds", "wallet id must be a non-empty string")
		}
	}
	return nil
}

// TokenID requires a non-empty token id.
func TokenID(tokenID string) error {
	if tokenID == "" {
		return fail("tokenId", "token id must not be empty")
	}
	return nil
}

// ProjectID requires a non-empty project id.
func ProjectID(projectID string) error {
	if projectID == "" {
		return fail("projectId", "project id must not be empty")
	}
	return nil
}

// StrategyID requires a non-empty strategy id.
func StrategyID(strategyID string) error {
	if strategyID == "" {
		return fail("strategyId", "strategy id must not be empty")
	}
	return nil
}

// SlippageBps requires a finite slippage in [0,10000] basis points.
func SlippageBps(slippage float64) error {
	if !finite(slippage) || slippage < 0 || slippage > 10000 {
		return fail("slippageBps", "slippage must be between 0 and 10000 basis points")
	}
	return nil
}

// PriceThresholdPercent requires a finite percentage in [0,100].
func PriceThresholdPercent(threshold float64) error {
	if !finite(threshold) || threshold < 0 || threshold > 100 {
		return fail("priceThresholdPercent", "price threshold percent must be between 0 and 100")
	}
	return nil
}

// Page requires an integer page number of at least 1.
func Page(page int) error {
	if page < 1 {
		return fail("page", "page must be at least 1")
	}
	return nil
}

// Limit requires an integer page size in [1,10000].
func Limit(limit int) error {
	if limit < 1 || limit > 10000 {
		return fail("limit", "limit must be between 1 and 10000")
	}
	return nil
}

// Pagination validates a page/limit pair.
func Pagination(page, limit int) error {
	if err := Page(page); err != nil {
		return err
	}
	return Limit(limit)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

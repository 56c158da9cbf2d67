package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a fixed-point monetary value. All balances, limits and operation
// amounts in the engine use decimal arithmetic to avoid floating point drift.
type Amount = decimal.Decimal

// ZeroAmount returns the zero monetary value.
func ZeroAmount() Amount {
	return decimal.Zero
}

// ParseAmount parses a decimal string into an Amount.
// The value must be a well-formed decimal with at most 2 fractional digits
// and must be strictly positive. Returns ErrInvalidAmount otherwise.
func ParseAmount(value string) (Amount, error) {
	if value == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}

	if d.Exponent() < -2 {
		return decimal.Zero, fmt.Errorf("%w: at most 2 decimal places allowed", ErrInvalidAmount)
	}

	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}

	return d, nil
}

// MustAmount parses a decimal string and panics on malformed input.
// Intended for fixtures and constants, not for user input.
func MustAmount(value string) Amount {
	return decimal.RequireFromString(value)
}

// FormatAmount renders an Amount with a currency sign and exactly two
// decimal places, the way receipts and log lines display money.
func FormatAmount(a Amount) string {
	return "$" + a.StringFixed(2)
}

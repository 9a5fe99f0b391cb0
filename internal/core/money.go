// Package core holds the domain model of the finance tracker: entities,
// money and time handling, and the validation rules the ledgers enforce.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary amount from its string form.
//
// Amounts are decimal fixed-point, never binary floats. Both dot (12.34)
// and comma (12,34) separators are accepted; values are rounded half-up to
// cent precision. Negative amounts are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, Invalidf("amount is required")
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, Invalidf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, Invalidf("amount must not be negative")
	}
	return d.Round(2), nil
}

// FormatAmount renders an amount with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Package normalize derives the stable dedup identifier for expenses and
// cleans up merchant strings coming out of model extraction and browser
// scraping. It is the single chokepoint that makes merchant text comparable
// across import paths.
package normalize

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Identifier computes the natural dedup key for a transaction:
// lowercase(trim(merchant)) + "|" + date + "|" + amount fixed to 2 decimals.
// It is deliberately insensitive to merchant casing/whitespace and to
// category, and sensitive to the amount rounded to 2 decimals. The date is
// expected in YYYY-MM-DD form and is passed through untouched.
func Identifier(merchant, date string, amount float64) string {
	m := strings.ToLower(strings.TrimSpace(merchant))
	return m + "|" + date + "|" + FormatAmount(amount)
}

// FormatAmount renders an amount as a fixed 2-decimal string. Values that
// cannot be represented (NaN, infinities) fall back to "0.00"; this is a
// defensive default for garbage upstream input, not a validated guarantee.
func FormatAmount(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "0.00"
	}
	return decimal.NewFromFloat(amount).StringFixed(2)
}

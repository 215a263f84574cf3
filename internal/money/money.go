// Package money converts integer minor-currency amounts into display values.
// All arithmetic on totals happens in minor units; decimal is only used at
// the presentation edge.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// zeroDecimalCurrencies have no minor unit; amounts are already whole.
var zeroDecimalCurrencies = map[string]struct{}{
	"jpy": {},
	"krw": {},
	"vnd": {},
}

func exponent(currencyCode string) int32 {
	if _, ok := zeroDecimalCurrencies[strings.ToLower(currencyCode)]; ok {
		return 0
	}
	return 2
}

// FromMinorUnits converts an amount in minor units to its decimal value in
// major units for the given currency.
func FromMinorUnits(amount int64, currencyCode string) decimal.Decimal {
	return decimal.New(amount, -exponent(currencyCode))
}

// Format renders an amount in minor units as a display string, e.g.
// Format(1999, "usd") == "19.99".
func Format(amount int64, currencyCode string) string {
	return FromMinorUnits(amount, currencyCode).StringFixed(exponent(currencyCode))
}

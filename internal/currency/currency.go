// Package currency converts statement amounts with a fixed rate table.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Supported currency codes.
const (
	RSD = "RSD"
	EUR = "EUR"
	USD = "USD"
	HUF = "HUF"
)

// Converter converts foreign amounts into the native currency (RSD).
// Rates are fixed; there is no live exchange-rate lookup.
type Converter struct {
	rates map[string]decimal.Decimal
}

// Default returns the built-in rate table: EUR 117.2, USD 107.5, HUF 0.3.
func Default() *Converter {
	return &Converter{rates: map[string]decimal.Decimal{
		EUR: decimal.RequireFromString("117.2"),
		USD: decimal.RequireFromString("107.5"),
		HUF: decimal.RequireFromString("0.3"),
	}}
}

// IsBuiltin reports whether code belongs to the built-in rate table.
func IsBuiltin(code string) bool {
	_, ok := Default().rates[strings.ToUpper(code)]
	return ok
}

// WithRates returns a copy of c with extra fixed rates. Built-in codes cannot
// be overridden.
func (c *Converter) WithRates(extra map[string]decimal.Decimal) *Converter {
	rates := make(map[string]decimal.Decimal, len(c.rates)+len(extra))
	for code, rate := range extra {
		rates[strings.ToUpper(code)] = rate
	}
	for code, rate := range Default().rates {
		rates[code] = rate
	}
	for code, rate := range c.rates {
		rates[code] = rate
	}
	return &Converter{rates: rates}
}

// Rate returns the multiplier into RSD. Unknown codes convert at 1.
func (c *Converter) Rate(code string) decimal.Decimal {
	if rate, ok := c.rates[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return rate
	}
	return decimal.NewFromInt(1)
}

// Convert converts amount in the given currency into RSD.
func (c *Converter) Convert(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Mul(c.Rate(code))
}

// ToEUR derives the reporting EUR amount from a native amount.
func (c *Converter) ToEUR(native decimal.Decimal) decimal.Decimal {
	return native.Div(c.Rate(EUR))
}

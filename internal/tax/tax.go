// Package tax derives subtotal/tax/total breakdowns from a merchant tax
// configuration. All arithmetic is on integer minor currency units; the
// functions never fail and never return negative components for non-negative
// input amounts.
package tax

import "math"

// Config is the merchant's tax configuration. Included reports whether
// displayed prices already contain tax.
type Config struct {
	Rate     float64
	Included bool
	Label    string
}

// Breakdown splits an amount into its pre-tax, tax, and gross components.
type Breakdown struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// Amount computes the tax portion of amount under cfg. For inclusive pricing
// the tax is extracted from the amount; otherwise it is added on top.
func Amount(cfg Config, amount int64) int64 {
	rate := cfg.Rate
	if rate <= 0 {
		return 0
	}
	if cfg.Included {
		return roundHalfAway(float64(amount) * rate / (1 + rate))
	}
	return roundHalfAway(float64(amount) * rate)
}

// Calculate returns the full breakdown for amount under cfg. For any
// amount >= 0, Subtotal + Tax == Total holds in both tax modes.
func Calculate(cfg Config, amount int64) Breakdown {
	t := Amount(cfg, amount)
	if cfg.Included {
		return Breakdown{Subtotal: amount - t, Tax: t, Total: amount}
	}
	return Breakdown{Subtotal: amount, Tax: t, Total: amount + t}
}

// DisplayLabel returns the configured tax label, defaulting to "Tax".
func DisplayLabel(cfg Config) string {
	if cfg.Label == "" {
		return "Tax"
	}
	return cfg.Label
}

// roundHalfAway rounds to the nearest integer with halves away from zero,
// matching how override prices are derived elsewhere.
func roundHalfAway(v float64) int64 {
	return int64(math.Round(v))
}

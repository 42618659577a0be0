// Package pricing converts extracted supplier prices to the final RON
// selling price: currency conversion, markup, and an upward round to a
// psychological .90 ending.
package pricing

import (
	"math"

	"gomag-importer/internal/types"
)

const (
	// TargetCurrency is the shop currency every price is converted to.
	TargetCurrency = "RON"

	// MissingPriceFallback is used when the source page had no usable
	// price, so the product still imports and can be repriced by hand.
	MissingPriceFallback = 1.0

	// minComputedPrice keeps converted prices from rounding below a
	// sane .90 amount.
	minComputedPrice = 1.90
)

// Normalizer applies the run's exchange rates and markup. It is
// read-only after construction.
type Normalizer struct {
	rates         types.Rates
	markupPercent float64
}

// NewNormalizer builds a normalizer from the run configuration.
func NewNormalizer(rates types.Rates, markupPercent float64) *Normalizer {
	return &Normalizer{rates: rates, markupPercent: markupPercent}
}

// Normalize turns a raw supplier price into the final RON price.
// A nil, non-positive, or unknown-currency price resolves to the 1 RON
// fallback with SourceHadPrice=false. Everything else is converted,
// marked up, and rounded up to the next .90 ending; the result is
// never below 2x the converted amount at 100% markup and rounding is
// always upward.
func (n *Normalizer) Normalize(raw *types.RawPrice) types.NormalizedPrice {
	if raw == nil || raw.Amount <= 0 {
		return fallbackPrice()
	}

	var baseRON float64
	switch raw.Currency {
	case "RON":
		baseRON = raw.Amount
	case "EUR":
		baseRON = raw.Amount * n.rates.EURToRON
	case "GBP":
		baseRON = raw.Amount * n.rates.GBPToRON
	default:
		return fallbackPrice()
	}

	final := baseRON * (1 + n.markupPercent/100)
	if final < minComputedPrice {
		final = minComputedPrice
	}

	return types.NormalizedPrice{
		Amount:         RoundUpTo90(final),
		Currency:       TargetCurrency,
		SourceHadPrice: true,
	}
}

// RoundUpTo90 rounds a price up to the nearest amount whose fractional
// part is exactly .90. Amounts already ending in .90 are unchanged;
// every other amount (integers included) rounds up, so 100 becomes
// 100.90 and 100.91 becomes 101.90. The arithmetic runs in integer
// cents so .90 boundaries are exact.
func RoundUpTo90(price float64) float64 {
	cents := int64(math.Round(price * 100))
	rem := cents % 100
	if rem <= 90 {
		cents += 90 - rem
	} else {
		cents += 190 - rem
	}
	return float64(cents) / 100
}

func fallbackPrice() types.NormalizedPrice {
	return types.NormalizedPrice{
		Amount:         MissingPriceFallback,
		Currency:       TargetCurrency,
		SourceHadPrice: false,
	}
}

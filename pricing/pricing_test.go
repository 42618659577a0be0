package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomag-importer/internal/types"
)

var testRates = types.Rates{EURToRON: 5, GBPToRON: 6}

func endsIn90(amount float64) bool {
	cents := int64(math.Round(amount * 100))
	return cents%100 == 90
}

func TestNormalize_MissingPrice(t *testing.T) {
	n := NewNormalizer(testRates, 100)

	got := n.Normalize(nil)

	assert.Equal(t, types.NormalizedPrice{Amount: 1, Currency: "RON", SourceHadPrice: false}, got)
}

func TestNormalize_ZeroAndNegativeTreatedAsMissing(t *testing.T) {
	n := NewNormalizer(testRates, 100)

	for _, amount := range []float64{0, -0.01, -99} {
		got := n.Normalize(&types.RawPrice{Amount: amount, Currency: "EUR"})
		assert.Equal(t, 1.0, got.Amount)
		assert.False(t, got.SourceHadPrice)
	}
}

func TestNormalize_UnknownCurrencyTreatedAsMissing(t *testing.T) {
	n := NewNormalizer(testRates, 100)

	got := n.Normalize(&types.RawPrice{Amount: 10, Currency: "USD"})

	assert.Equal(t, 1.0, got.Amount)
	assert.False(t, got.SourceHadPrice)
}

func TestNormalize_EURScenario(t *testing.T) {
	// 10 EUR at rate 5 with 100% markup: 10*5*2 = 100, rounded up to 100.90.
	n := NewNormalizer(testRates, 100)

	got := n.Normalize(&types.RawPrice{Amount: 10, Currency: "EUR"})

	require.True(t, got.SourceHadPrice)
	assert.Equal(t, "RON", got.Currency)
	assert.InDelta(t, 100.90, got.Amount, 1e-9)
}

func TestNormalize_AllCurrenciesEndIn90AndCoverMarkup(t *testing.T) {
	n := NewNormalizer(testRates, 100)

	amounts := []float64{0.01, 0.49, 1, 2.95, 9.99, 10, 37.21, 120.90, 4999.99}
	for _, currency := range []string{"EUR", "GBP", "RON"} {
		for _, amount := range amounts {
			got := n.Normalize(&types.RawPrice{Amount: amount, Currency: currency})

			require.True(t, got.SourceHadPrice, "%f %s", amount, currency)
			assert.True(t, endsIn90(got.Amount), "%f %s -> %f", amount, currency, got.Amount)

			var converted float64
			switch currency {
			case "EUR":
				converted = amount * testRates.EURToRON
			case "GBP":
				converted = amount * testRates.GBPToRON
			default:
				converted = amount
			}
			assert.GreaterOrEqual(t, got.Amount+1e-9, 2*converted, "%f %s", amount, currency)
		}
	}
}

func TestNormalize_Monotonic(t *testing.T) {
	n := NewNormalizer(testRates, 100)

	prev := 0.0
	for amount := 0.01; amount < 50; amount += 0.37 {
		got := n.Normalize(&types.RawPrice{Amount: amount, Currency: "EUR"})
		assert.GreaterOrEqual(t, got.Amount, prev, "amount %f", amount)
		prev = got.Amount
	}
}

func TestNormalize_TinyPriceKeepsFloor(t *testing.T) {
	n := NewNormalizer(testRates, 100)

	got := n.Normalize(&types.RawPrice{Amount: 0.10, Currency: "RON"})

	assert.InDelta(t, 1.90, got.Amount, 1e-9)
	assert.True(t, got.SourceHadPrice)
}

func TestRoundUpTo90(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{100, 100.90},
		{100.90, 100.90}, // already a .90 ending stays put
		{100.91, 101.90},
		{99.10, 99.90},
		{1.90, 1.90},
		{0.10, 0.90},
		{12.50, 12.90},
		{12.9999, 13.90},
	}

	for _, tc := range cases {
		assert.InDelta(t, tc.want, RoundUpTo90(tc.in), 1e-9, "input %f", tc.in)
	}
}

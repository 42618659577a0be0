package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceText(t *testing.T) {
	cases := []struct {
		text     string
		amount   float64
		currency string
	}{
		{"12,50 €", 12.50, "EUR"},
		{"EUR 12.50", 12.50, "EUR"},
		{"1.234,56 lei", 1234.56, "RON"},
		{"1,234.56 RON", 1234.56, "RON"},
		{"£89.99", 89.99, "GBP"},
		{"Pret: 45 lei", 45, "RON"},
		{"GBP 1,299.00", 1299, "GBP"},
	}
	for _, tc := range cases {
		got := ParsePriceText(tc.text)
		require.NotNil(t, got, tc.text)
		assert.InDelta(t, tc.amount, got.Amount, 1e-9, tc.text)
		assert.Equal(t, tc.currency, got.Currency, tc.text)
	}
}

func TestParsePriceText_NoCurrencyMarker(t *testing.T) {
	for _, text := range []string{"", "12.50", "In stock: 45 units", "Cod produs 1234"} {
		assert.Nil(t, ParsePriceText(text), text)
	}
}

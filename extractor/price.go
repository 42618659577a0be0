package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"gomag-importer/internal/types"
)

// Matches "1.234,56", "1,234.56", "12,50", "12.50" and bare integers.
var priceRe = regexp.MustCompile(`(\d{1,3}([.,]\d{3})*[.,]\d{2}|\d+[.,]\d{2}|\d+)`)

// ParsePriceText pulls an amount and currency out of a free-form price
// string such as "1.234,56 lei" or "EUR 12.50". It returns nil when no
// currency marker or no number is present; supplier pages mix comma
// and dot conventions, so the separator roles are decided by which
// comes last.
func ParsePriceText(text string) *types.RawPrice {
	upper := strings.ToUpper(text)

	var currency string
	switch {
	case strings.Contains(text, "€") || strings.Contains(upper, "EUR"):
		currency = "EUR"
	case strings.Contains(upper, "RON") || strings.Contains(upper, "LEI"):
		currency = "RON"
	case strings.Contains(text, "£") || strings.Contains(upper, "GBP"):
		currency = "GBP"
	default:
		return nil
	}

	raw := priceRe.FindString(text)
	if raw == "" {
		return nil
	}

	hasComma := strings.Contains(raw, ",")
	hasDot := strings.Contains(raw, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(raw, ",") > strings.LastIndex(raw, ".") {
			// European style: dot groups thousands, comma is decimal.
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.ReplaceAll(raw, ",", ".")
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case hasComma:
		raw = strings.ReplaceAll(raw, ",", ".")
	}

	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}

	return &types.RawPrice{Amount: amount, Currency: currency}
}

// Package assemble merges extraction, pricing, SKU and translation
// output into the final ImportRecord. This is a pure merge with the
// shop's fixed constants; schema validation is the platform API's job.
package assemble

import (
	"net/url"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"gomag-importer/internal/types"
)

const (
	// DefaultStock is the quantity every imported product starts with.
	DefaultStock = 1

	// placeholderTitle is the last-resort name when neither the page
	// nor its URL yields anything usable.
	placeholderTitle = "Produs"
)

// Assemble builds the submission record for one URL. The extracted
// product here is the translated copy when a translation backend ran.
func Assemble(extracted types.ExtractedProduct, price types.NormalizedPrice, resolved types.ResolvedSKU, categoryID int) types.ImportRecord {
	name := extracted.Title
	if name == "" {
		name = titleFromURL(extracted.URL)
	}
	if name == "" {
		name = resolved.Value
	}
	if name == "" {
		name = placeholderTitle
	}

	return types.ImportRecord{
		SKU:         resolved.Value,
		Name:        name,
		Description: extracted.Description,
		Specs:       extracted.Specs,
		Images:      extracted.Images,
		Variants:    extracted.Variants,
		Price:       price,
		SKUOrigin:   resolved.Origin,
		Stock:       DefaultStock,
		Active:      true,
		CategoryID:  categoryID,
		SourceURL:   extracted.URL,
	}
}

// titleFromURL derives a readable placeholder from the last URL path
// segment: "blue-steel-mug" becomes "Blue steel mug".
func titleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	segment := path.Base(strings.TrimSuffix(u.Path, "/"))
	if segment == "" || segment == "." || segment == "/" {
		return ""
	}

	segment = strings.TrimSuffix(segment, path.Ext(segment))
	words := strings.FieldsFunc(segment, func(r rune) bool {
		return r == '-' || r == '_' || r == '+'
	})
	if len(words) == 0 {
		return ""
	}

	title := strings.Join(words, " ")
	first, size := utf8.DecodeRuneInString(title)
	return string(unicode.ToUpper(first)) + title[size:]
}

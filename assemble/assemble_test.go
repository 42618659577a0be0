package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gomag-importer/internal/types"
)

func TestAssemble_FullProduct(t *testing.T) {
	extracted := types.ExtractedProduct{
		URL:         "https://shop.test/product/bamboo-mug",
		Title:       "Cana de bambus",
		Description: "Pastreaza bauturile calde",
		Images:      []string{"https://cdn.test/a.jpg"},
		Specs:       map[string]string{"Material": "Bambus"},
		Variants: []types.Variant{
			{Name: "color", Value: "Rosu"},
			{Name: "color", Value: "Albastru"},
		},
	}
	price := types.NormalizedPrice{Amount: 49.90, Currency: "RON", SourceHadPrice: true}
	resolved := types.ResolvedSKU{Value: "MO9480", Origin: types.SKUFromURL}

	got := Assemble(extracted, price, resolved, 12)

	assert.Equal(t, "MO9480", got.SKU)
	assert.Equal(t, "Cana de bambus", got.Name)
	assert.Equal(t, "Pastreaza bauturile calde", got.Description)
	assert.Equal(t, price, got.Price)
	assert.Equal(t, types.SKUFromURL, got.SKUOrigin)
	assert.Equal(t, extracted.Variants, got.Variants)
	assert.Equal(t, 1, got.Stock)
	assert.True(t, got.Active)
	assert.Equal(t, 12, got.CategoryID)
	assert.Equal(t, "https://shop.test/product/bamboo-mug", got.SourceURL)
}

func TestAssemble_NameFallsBackToURLSegment(t *testing.T) {
	extracted := types.ExtractedProduct{URL: "https://shop.test/product/blue-steel-mug"}
	resolved := types.ResolvedSKU{Value: "IMP-ABCDEF1234", Origin: types.SKUFromGenerated}

	got := Assemble(extracted, types.NormalizedPrice{Amount: 1, Currency: "RON"}, resolved, 0)

	assert.Equal(t, "Blue steel mug", got.Name)
	assert.Equal(t, 0, got.CategoryID)
}

func TestAssemble_NameFallsBackToSKU(t *testing.T) {
	extracted := types.ExtractedProduct{URL: "https://shop.test/"}
	resolved := types.ResolvedSKU{Value: "IMP-ABCDEF1234", Origin: types.SKUFromGenerated}

	got := Assemble(extracted, types.NormalizedPrice{Amount: 1, Currency: "RON"}, resolved, 0)

	assert.Equal(t, "IMP-ABCDEF1234", got.Name)
}

func TestAssemble_PlaceholderWhenNothingUsable(t *testing.T) {
	got := Assemble(types.ExtractedProduct{URL: "https://shop.test/"}, types.NormalizedPrice{}, types.ResolvedSKU{}, 0)

	assert.Equal(t, "Produs", got.Name)
}

func TestTitleFromURL(t *testing.T) {
	cases := map[string]string{
		"https://shop.test/product/blue-steel-mug":   "Blue steel mug",
		"https://shop.test/product/termo_cana+inox/": "Termo cana inox",
		"https://shop.test/p/item.html":              "Item",
		"https://shop.test/produs/șosete-bumbac":     "Șosete bumbac",
		"https://shop.test/":                         "",
		"":                                           "",
	}
	for rawURL, want := range cases {
		assert.Equal(t, want, titleFromURL(rawURL), rawURL)
	}
}

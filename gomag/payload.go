package gomag

import "gomag-importer/internal/types"

// BuildPayload maps an ImportRecord onto the product/write schema.
// This is the single place to adjust when a shop's field mapping
// differs; the exact schema can vary per shop configuration.
func BuildPayload(r types.ImportRecord) map[string]interface{} {
	payload := map[string]interface{}{
		"sku":         r.SKU,
		"name":        r.Name,
		"description": r.Description,
		"price":       r.Price.Amount,
		"currency":    r.Price.Currency,
		"stock":       r.Stock,
		"active":      boolToInt(r.Active),
	}

	if r.CategoryID > 0 {
		payload["category_id"] = r.CategoryID
	}
	if len(r.Images) > 0 {
		payload["images"] = r.Images
	}
	if len(r.Specs) > 0 {
		payload["attributes"] = r.Specs
	}
	if len(r.Variants) > 0 {
		variants := make([]map[string]string, len(r.Variants))
		for i, v := range r.Variants {
			variants[i] = map[string]string{"name": v.Name, "value": v.Value}
		}
		payload["variants"] = variants
	}

	return payload
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package extractor

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gomag-importer/internal/types"
)

// productLD is the subset of a schema.org Product node the importer
// cares about, after untangling @graph nesting and type lists.
type productLD struct {
	Name        string
	SKU         string
	Description string
	Images      []string
	Price       *types.RawPrice
}

// findProductLD scans every ld+json script on the page for a Product
// node. Malformed blocks are skipped, never fatal.
func findProductLD(doc *goquery.Document) *productLD {
	var nodes []map[string]interface{}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		var payload interface{}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return
		}

		switch v := payload.(type) {
		case map[string]interface{}:
			nodes = append(nodes, v)
		case []interface{}:
			for _, item := range v {
				if m, ok := item.(map[string]interface{}); ok {
					nodes = append(nodes, m)
				}
			}
		}
	})

	for _, n := range nodes {
		if isProductNode(n) {
			return parseProductNode(n)
		}
	}

	// Products are often buried in an @graph list.
	for _, n := range nodes {
		graph, ok := n["@graph"].([]interface{})
		if !ok {
			continue
		}
		for _, item := range graph {
			m, ok := item.(map[string]interface{})
			if ok && isProductNode(m) {
				return parseProductNode(m)
			}
		}
	}

	return nil
}

func isProductNode(node map[string]interface{}) bool {
	switch t := node["@type"].(type) {
	case string:
		return t == "Product"
	case []interface{}:
		for _, v := range t {
			if s, ok := v.(string); ok && s == "Product" {
				return true
			}
		}
	}
	return false
}

func parseProductNode(node map[string]interface{}) *productLD {
	p := &productLD{
		Name:        ldString(node["name"]),
		SKU:         ldString(node["sku"]),
		Description: ldString(node["description"]),
	}

	switch img := node["image"].(type) {
	case string:
		p.Images = []string{img}
	case []interface{}:
		for _, v := range img {
			if s, ok := v.(string); ok && s != "" {
				p.Images = append(p.Images, s)
			}
		}
	}

	if offers, ok := node["offers"].(map[string]interface{}); ok {
		p.Price = parseOffer(offers)
	} else if list, ok := node["offers"].([]interface{}); ok && len(list) > 0 {
		if first, ok := list[0].(map[string]interface{}); ok {
			p.Price = parseOffer(first)
		}
	}

	return p
}

func parseOffer(offer map[string]interface{}) *types.RawPrice {
	currency := strings.ToUpper(ldString(offer["priceCurrency"]))
	if currency == "" {
		return nil
	}

	var amount float64
	switch v := offer["price"].(type) {
	case float64:
		amount = v
	case string:
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
		if err != nil {
			return nil
		}
		amount = parsed
	default:
		return nil
	}

	return &types.RawPrice{Amount: amount, Currency: currency}
}

func ldString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

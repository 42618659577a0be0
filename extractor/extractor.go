// Package extractor pulls structured product fields out of fetched
// supplier pages. Every field is tried against an ordered strategy
// chain: the domain's rule-set selectors first, then schema.org
// structured data, then generic markup heuristics. The first strategy
// returning a non-empty value wins; a field with no winner stays empty
// and never aborts extraction of the other fields.
package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gomag-importer/internal/types"
	"gomag-importer/rules"
)

var skuTextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bSKU\s*[:#]?\s*([A-Z0-9.\-_/]{3,})\b`),
	regexp.MustCompile(`(?i)\b(?:Product code|Item code|Cod produs)\s*[:#]?\s*([A-Z0-9.\-_/]{3,})\b`),
}

// Extractor applies the rule table plus generic heuristics to pages.
// The rule table is read-only; Extract is safe for concurrent use.
type Extractor struct {
	rules  *rules.Table
	logger types.Logger
}

// New creates an extractor bound to a loaded rule table.
func New(table *rules.Table, logger types.Logger) *Extractor {
	return &Extractor{rules: table, logger: logger}
}

// Extract parses one page and returns the raw product fields. A page
// with no content (fetch failure) or unparseable markup yields a
// degraded product with only the URL set.
func (e *Extractor) Extract(page types.SourcePage) types.ExtractedProduct {
	product := types.ExtractedProduct{URL: page.URL, Specs: map[string]string{}}

	if strings.TrimSpace(page.HTML) == "" {
		return product
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		e.logger.Warnf("Failed to parse HTML for %s: %v", page.URL, err)
		return product
	}

	domain := rules.DomainFromURL(page.URL)
	rs := e.rules.Lookup(domain)
	ld := findProductLD(doc)

	product.Title = firstNonEmpty(
		func() string { return ruleText(doc, rs, func(r *rules.RuleSet) string { return r.TitleCSS }) },
		func() string {
			if ld != nil {
				return ld.Name
			}
			return ""
		},
		func() string { return genericTitle(doc) },
	)

	product.Description = firstNonEmpty(
		func() string { return ruleText(doc, rs, func(r *rules.RuleSet) string { return r.DescriptionCSS }) },
		func() string {
			if ld != nil {
				return ld.Description
			}
			return ""
		},
		func() string { return genericDescription(doc) },
	)

	product.Images = e.extractImages(doc, rs, ld, page.URL)
	product.Price = e.extractPrice(doc, rs, ld)
	product.SKUCandidates = extractSKUCandidates(doc, rs, ld, page.HTML)
	product.Specs = extractSpecs(doc, rs)
	product.Variants = extractVariants(doc)

	e.logger.Debugf("Extracted %s: title=%q images=%d price=%v candidates=%d",
		page.URL, product.Title, len(product.Images), product.Price, len(product.SKUCandidates))

	return product
}

func (e *Extractor) extractImages(doc *goquery.Document, rs *rules.RuleSet, ld *productLD, pageURL string) []string {
	if rs != nil && rs.ImageCSS != "" && rs.ImageAttr != "" {
		if imgs := cssAttrList(doc, rs.ImageCSS, rs.ImageAttr); len(imgs) > 0 {
			return dedupURLs(imgs, pageURL)
		}
	}

	if ld != nil && len(ld.Images) > 0 {
		return dedupURLs(ld.Images, pageURL)
	}

	return dedupURLs(genericImages(doc), pageURL)
}

func (e *Extractor) extractPrice(doc *goquery.Document, rs *rules.RuleSet, ld *productLD) *types.RawPrice {
	if rs != nil && rs.PriceCSS != "" {
		if text := cssText(doc, rs.PriceCSS); text != "" {
			if p := ParsePriceText(text); p != nil {
				return p
			}
		}
	}

	if ld != nil && ld.Price != nil {
		return ld.Price
	}

	// Last resort: scan the visible page text for a price-looking token.
	return ParsePriceText(doc.Find("body").Text())
}

func extractSKUCandidates(doc *goquery.Document, rs *rules.RuleSet, ld *productLD, html string) []types.SKUCandidate {
	var candidates []types.SKUCandidate

	if rs != nil && rs.SKUCSS != "" {
		if v := cssText(doc, rs.SKUCSS); v != "" {
			candidates = append(candidates, types.SKUCandidate{Source: "rules", Value: v})
		}
	}

	if ld != nil && ld.SKU != "" {
		candidates = append(candidates, types.SKUCandidate{Source: "jsonld", Value: ld.SKU})
	}

	for _, re := range skuTextPatterns {
		m := re.FindStringSubmatch(html)
		if m != nil {
			candidates = append(candidates, types.SKUCandidate{
				Source: "text",
				Value:  strings.ToUpper(strings.TrimSpace(m[len(m)-1])),
			})
			break
		}
	}

	return candidates
}

func extractSpecs(doc *goquery.Document, rs *rules.RuleSet) map[string]string {
	specs := map[string]string{}
	if rs == nil || rs.SpecRowCSS == "" || rs.SpecKeyCSS == "" || rs.SpecValueCSS == "" {
		return specs
	}

	doc.Find(rs.SpecRowCSS).Each(func(_ int, row *goquery.Selection) {
		key := strings.TrimSpace(row.Find(rs.SpecKeyCSS).First().Text())
		value := strings.TrimSpace(row.Find(rs.SpecValueCSS).First().Text())
		if key != "" && value != "" {
			specs[key] = value
		}
	})

	return specs
}

func extractVariants(doc *goquery.Document) []types.Variant {
	var variants []types.Variant

	doc.Find("select").Each(func(_ int, sel *goquery.Selection) {
		name := strings.ToLower(sel.AttrOr("name", "") + " " + sel.AttrOr("id", ""))
		if !strings.Contains(name, "variant") && !strings.Contains(name, "size") && !strings.Contains(name, "color") {
			return
		}

		label := strings.TrimSpace(sel.AttrOr("name", sel.AttrOr("id", "variant")))
		sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
			value := strings.TrimSpace(opt.Text())
			if value == "" || strings.EqualFold(value, "select") {
				return
			}
			variants = append(variants, types.Variant{Name: label, Value: value})
		})
	})

	return variants
}

func genericTitle(doc *goquery.Document) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	if og := metaContent(doc, `meta[property="og:title"]`); og != "" {
		return og
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func genericDescription(doc *goquery.Document) string {
	if og := metaContent(doc, `meta[property="og:description"]`); og != "" {
		return og
	}
	return metaContent(doc, `meta[name="description"]`)
}

func genericImages(doc *goquery.Document) []string {
	var images []string

	for _, sel := range []string{`meta[property="og:image"]`, `meta[property="og:image:url"]`} {
		if v := metaContent(doc, sel); v != "" {
			images = append(images, v)
		}
	}
	if len(images) > 0 {
		return images
	}

	// No social metadata: fall back to full-size img tags, skipping
	// icons, logos and inline data URIs.
	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		lower := strings.ToLower(src)
		if strings.Contains(lower, "logo") || strings.Contains(lower, "icon") || strings.Contains(lower, "sprite") {
			return
		}
		if tooSmall(img.AttrOr("width", "")) || tooSmall(img.AttrOr("height", "")) {
			return
		}
		images = append(images, src)
	})

	return images
}

// tooSmall reports whether a declared pixel dimension is under the
// product-image threshold. Missing or non-numeric attributes pass.
func tooSmall(attr string) bool {
	attr = strings.TrimSuffix(strings.TrimSpace(attr), "px")
	if attr == "" {
		return false
	}
	n := 0
	for _, r := range attr {
		if r < '0' || r > '9' {
			return false
		}
		n = n*10 + int(r-'0')
	}
	return n < 200
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}

func ruleText(doc *goquery.Document, rs *rules.RuleSet, pick func(*rules.RuleSet) string) string {
	if rs == nil {
		return ""
	}
	sel := pick(rs)
	if sel == "" {
		return ""
	}
	return cssText(doc, sel)
}

func cssText(doc *goquery.Document, selector string) string {
	el := doc.Find(selector).First()
	if el.Length() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(el.Text()), " ")
}

func cssAttrList(doc *goquery.Document, selector, attr string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if v := strings.TrimSpace(s.AttrOr(attr, "")); v != "" {
			out = append(out, v)
		}
	})
	return out
}

// dedupURLs removes duplicates and resolves relative image URLs
// against the page URL.
func dedupURLs(raw []string, pageURL string) []string {
	base, baseErr := url.Parse(pageURL)

	seen := make(map[string]bool)
	var out []string
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if baseErr == nil {
			if ref, err := url.Parse(r); err == nil {
				r = base.ResolveReference(ref).String()
			}
		}
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func firstNonEmpty(strategies ...func() string) string {
	for _, s := range strategies {
		if v := strings.TrimSpace(s()); v != "" {
			return v
		}
	}
	return ""
}

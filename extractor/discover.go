package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gomag-importer/internal/types"
	"gomag-importer/rules"
)

// Link shapes that usually point at product detail pages when a
// supplier has no product_link_css rule.
var genericLinkHints = []string{"/product", "/produs", "/p/", "/item"}

// ProductLinks expands a supplier listing page into the product URLs
// it links to, deduplicated and resolved to absolute form. The domain
// rule set's product link selector wins; without one, anchors whose
// href looks like a product detail path are collected.
func (e *Extractor) ProductLinks(page types.SourcePage) []string {
	if strings.TrimSpace(page.HTML) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		e.logger.Warnf("Failed to parse listing %s: %v", page.URL, err)
		return nil
	}

	rs := e.rules.Lookup(rules.DomainFromURL(page.URL))

	var hrefs []string
	if rs != nil && rs.ProductLinkCSS != "" {
		hrefs = cssAttrList(doc, rs.ProductLinkCSS, "href")
	}

	if len(hrefs) == 0 {
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href := strings.TrimSpace(a.AttrOr("href", ""))
			for _, hint := range genericLinkHints {
				if strings.Contains(strings.ToLower(href), hint) {
					hrefs = append(hrefs, href)
					break
				}
			}
		})
	}

	links := dedupURLs(hrefs, page.URL)
	e.logger.Infof("Found %d product links on %s", len(links), page.URL)
	return links
}

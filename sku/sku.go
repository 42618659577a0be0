// Package sku derives a stable product identifier from an ordered
// fallback chain: page-sourced candidates, a supplier-pattern token in
// the URL path, and finally a deterministic hash-derived code. The
// resolver never fails and never returns an empty value.
package sku

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"

	"gomag-importer/internal/types"
)

// GeneratedPrefix tags SKUs that had to be derived from the URL hash.
const GeneratedPrefix = "IMP-"

// Known supplier code shapes seen in product URL paths
// (andapresent AP..., midocean MO..., PF Concept PC..., etc).
var urlTokenRe = regexp.MustCompile(`(?i)(AP\d{6,}-\d+|MO\d{3,5}|KI\d{4}|P\d{3}\.\d{2}|DM\d{5,}|PC\d{4,})`)

// Resolve picks the product identifier for one URL. Candidates are
// tried in their given order (the extractor already ranks them by
// source priority); identical inputs always yield identical output.
func Resolve(candidates []types.SKUCandidate, rawURL string) types.ResolvedSKU {
	for _, c := range candidates {
		if v := strings.TrimSpace(c.Value); v != "" {
			return types.ResolvedSKU{Value: Shorten(v), Origin: types.SKUFromPage}
		}
	}

	if token := tokenFromURL(rawURL); token != "" {
		return types.ResolvedSKU{Value: token, Origin: types.SKUFromURL}
	}

	return types.ResolvedSKU{Value: Generate(rawURL), Origin: types.SKUFromGenerated}
}

// Generate builds the deterministic fallback SKU for a URL: the
// GeneratedPrefix plus the first 10 hex chars of SHA-1(url),
// uppercased. The same URL produces the same SKU across runs.
func Generate(rawURL string) string {
	sum := sha1.Sum([]byte(rawURL))
	return GeneratedPrefix + strings.ToUpper(hex.EncodeToString(sum[:])[:10])
}

// MaxLength is the platform's SKU length limit.
const MaxLength = 30

// Shorten fits a SKU into the platform limit while staying
// deterministic and collision-resistant: over-long values keep a
// prefix and append an 8-char hash of the full value.
func Shorten(value string) string {
	value = strings.TrimSpace(value)
	if len(value) <= MaxLength {
		return value
	}

	sum := sha1.Sum([]byte(value))
	h := hex.EncodeToString(sum[:])[:8]
	prefixLen := MaxLength - 1 - len(h)
	return value[:prefixLen] + "-" + h
}

func tokenFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	m := urlTokenRe.FindString(u.Path)
	if m == "" {
		return ""
	}
	return strings.ToUpper(m)
}

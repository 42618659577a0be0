// Package rules loads per-supplier-domain extraction rule sets from
// YAML files. A rule set names the CSS selectors used to pull each
// product field out of that supplier's pages; URLs whose domain has no
// rule file fall through to the generic extractor.
package rules

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleSet is the selector configuration for one supplier domain.
// Empty selectors mean "no domain rule for this field"; the extractor
// then moves on to structured data and generic heuristics.
type RuleSet struct {
	Domain         string `yaml:"domain"`
	TitleCSS       string `yaml:"title_css"`
	DescriptionCSS string `yaml:"description_css"`
	SKUCSS         string `yaml:"sku_css"`
	PriceCSS       string `yaml:"price_css"`
	ImageCSS       string `yaml:"image_css"`
	ImageAttr      string `yaml:"image_attr"`
	SpecRowCSS     string `yaml:"spec_row_css"`
	SpecKeyCSS     string `yaml:"spec_key_css"`
	SpecValueCSS   string `yaml:"spec_value_css"`
	ProductLinkCSS string `yaml:"product_link_css"`

	// WaitCSS names an element browser fetches wait for before taking
	// the page HTML, for suppliers whose product block renders late.
	WaitCSS string `yaml:"wait_css"`
}

// Table maps normalized domains to their rule sets. It is loaded once
// at startup and read-only afterwards.
type Table struct {
	byDomain map[string]*RuleSet
	fallback *RuleSet // from default.yaml, may be nil
}

// LoadDir reads every *.yaml file in dir into a Table. A file named
// default.yaml becomes the fallback applied to domains with no file of
// their own. A missing directory yields an empty table, not an error.
func LoadDir(dir string) (*Table, error) {
	t := &Table{byDomain: make(map[string]*RuleSet)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("failed to read rules dir %s: %w", dir, err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read rule file %s: %w", name, err)
		}

		var rs RuleSet
		if err := yaml.Unmarshal(data, &rs); err != nil {
			return nil, fmt.Errorf("failed to parse rule file %s: %w", name, err)
		}

		base := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
		if rs.Domain == "" {
			rs.Domain = base
		}

		if base == "default" {
			t.fallback = &rs
			continue
		}
		t.byDomain[NormalizeDomain(rs.Domain)] = &rs
	}

	return t, nil
}

// Lookup returns the rule set for a domain, or the default rule set,
// or nil when neither exists.
func (t *Table) Lookup(domain string) *RuleSet {
	if rs, ok := t.byDomain[NormalizeDomain(domain)]; ok {
		return rs
	}
	return t.fallback
}

// Len reports the number of domain-specific rule sets loaded.
func (t *Table) Len() int {
	return len(t.byDomain)
}

// DomainFromURL extracts the normalized domain from a URL, or "" when
// the URL does not parse.
func DomainFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return NormalizeDomain(u.Hostname())
}

// NormalizeDomain lowercases a domain and strips a leading "www.".
func NormalizeDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	return strings.TrimPrefix(d, "www.")
}

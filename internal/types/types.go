package types

import "time"

// FetchMethod records how a page's content was retrieved.
type FetchMethod string

const (
	FetchPlain   FetchMethod = "http"
	FetchBrowser FetchMethod = "browser"
)

// SourcePage is the raw fetched content for one supplier URL.
// It is immutable once fetched; extraction must never modify it.
type SourcePage struct {
	URL    string      `json:"url"`
	HTML   string      `json:"-"`
	Method FetchMethod `json:"fetch_method"`
}

// RawPrice is a price as found on the supplier page, before any
// conversion or markup.
type RawPrice struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"` // EUR, GBP or RON
}

// SKUCandidate is one possible product identifier, tagged with where
// it came from so the resolver can prefer page-sourced values.
type SKUCandidate struct {
	Source string `json:"source"` // "rules", "jsonld", "text"
	Value  string `json:"value"`
}

// Variant is a product variation (color, size) found on the page.
type Variant struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ExtractedProduct holds the raw field values pulled from a SourcePage
// before normalization. Downstream stages produce new objects rather
// than editing this one.
type ExtractedProduct struct {
	URL           string            `json:"url"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Specs         map[string]string `json:"specs,omitempty"`
	Images        []string          `json:"images,omitempty"`
	Price         *RawPrice         `json:"price,omitempty"`
	SKUCandidates []SKUCandidate    `json:"sku_candidates,omitempty"`
	Variants      []Variant         `json:"variants,omitempty"`
}

// NormalizedPrice is the final price decision for a record. When the
// source had a usable price the amount always ends in .90; when it did
// not, the amount is the 1 RON floor.
type NormalizedPrice struct {
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	SourceHadPrice bool    `json:"source_had_price"`
}

// SKUOrigin records which fallback produced the resolved SKU.
type SKUOrigin string

const (
	SKUFromPage      SKUOrigin = "page"
	SKUFromURL       SKUOrigin = "url"
	SKUFromGenerated SKUOrigin = "generated"
)

// ResolvedSKU is the final product identifier. Value is always
// non-empty; the generated form is deterministic per URL.
type ResolvedSKU struct {
	Value  string    `json:"value"`
	Origin SKUOrigin `json:"origin"`
}

// ImportRecord is the fully assembled product submission, consumed
// read-only by the platform client and the exporters.
type ImportRecord struct {
	SKU         string            `json:"sku"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Specs       map[string]string `json:"specs,omitempty"`
	Images      []string          `json:"images,omitempty"`
	Variants    []Variant         `json:"variants,omitempty"`
	Price       NormalizedPrice   `json:"price"`
	SKUOrigin   SKUOrigin         `json:"sku_origin"`
	Stock       int               `json:"stock"`
	Active      bool              `json:"active"`
	CategoryID  int               `json:"category_id,omitempty"`
	SourceURL   string            `json:"source_url"`
}

// ResultStatus is the per-URL outcome in the batch report.
type ResultStatus string

const (
	StatusImported ResultStatus = "imported"
	StatusExported ResultStatus = "exported"
	StatusFailed   ResultStatus = "failed"
	StatusSkipped  ResultStatus = "skipped"
)

// Result is the outcome for a single URL. Results are reported in
// input order regardless of processing order.
type Result struct {
	URL       string        `json:"url"`
	Status    ResultStatus  `json:"status"`
	Reason    string        `json:"reason,omitempty"`
	Record    *ImportRecord `json:"record,omitempty"`
	FetchedBy FetchMethod   `json:"fetched_by,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}

// BatchReport is the outcome of one importer run.
type BatchReport struct {
	RunID    string    `json:"run_id"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Results  []Result  `json:"results"`
}

// Rates is the exchange-rate table for converting supplier prices to
// RON. Loaded once at startup and read-only for the run's lifetime.
type Rates struct {
	EURToRON float64
	GBPToRON float64
}

// Config holds the run-wide configuration for the importer.
type Config struct {
	RequestDelay  time.Duration
	MaxRetries    int
	Timeout       time.Duration
	WorkerCount   int
	ForceBrowser  bool
	UserAgent     string
	MarkupPercent float64
	CategoryID    int
	TargetLang    string
	Rates         Rates
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RequestDelay:  1 * time.Second,
		MaxRetries:    3,
		Timeout:       30 * time.Second,
		WorkerCount:   4,
		ForceBrowser:  false,
		UserAgent:     "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		MarkupPercent: 100,
		TargetLang:    "RO",
		Rates:         Rates{EURToRON: 4.97, GBPToRON: 5.85},
	}
}

// Logger defines the logging interface used across the importer.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

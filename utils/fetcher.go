package utils

import (
	"context"
	"fmt"
	"strings"

	"gomag-importer/internal/types"
	"gomag-importer/rules"
)

// pageRenderer is the browser half of the fetcher, split out so tests
// can fake the headless browser.
type pageRenderer interface {
	GetPageContent(ctx context.Context, url, waitSelector string) (string, error)
}

// Fetcher retrieves supplier pages: plain HTTP first, falling back to
// the headless browser when the response looks blocked or empty, or
// skipping straight to the browser when the run forces it. Browser
// fetches honor the domain rule set's wait_css selector.
type Fetcher struct {
	httpClient *HTTPClient
	browser    pageRenderer
	rules      *rules.Table
	config     *types.Config
	logger     types.Logger
}

// NewFetcher creates a fetcher from the run configuration and the
// loaded rule table.
func NewFetcher(config *types.Config, table *rules.Table, logger types.Logger) *Fetcher {
	return &Fetcher{
		httpClient: NewHTTPClient(config, logger),
		browser:    NewBrowserClient(config, logger),
		rules:      table,
		config:     config,
		logger:     logger,
	}
}

// Fetch returns the page for one URL, recording which method produced
// the content.
func (f *Fetcher) Fetch(ctx context.Context, url string) (types.SourcePage, error) {
	if f.config.ForceBrowser {
		return f.fetchBrowser(ctx, url)
	}

	body, err := f.httpClient.Get(ctx, url)
	if err == nil && !LooksBlockedOrEmpty(string(body)) {
		return types.SourcePage{URL: url, HTML: string(body), Method: types.FetchPlain}, nil
	}

	if err != nil {
		f.logger.Warnf("Plain fetch of %s failed (%v), retrying with browser", url, err)
	} else {
		f.logger.Infof("Plain fetch of %s looks blocked or empty, retrying with browser", url)
	}

	page, berr := f.fetchBrowser(ctx, url)
	if berr != nil {
		if err != nil {
			return types.SourcePage{URL: url}, fmt.Errorf("fetch failed via http (%v) and browser: %w", err, berr)
		}
		return types.SourcePage{URL: url}, berr
	}
	return page, nil
}

func (f *Fetcher) fetchBrowser(ctx context.Context, url string) (types.SourcePage, error) {
	html, err := f.browser.GetPageContent(ctx, url, f.waitSelector(url))
	if err != nil {
		return types.SourcePage{URL: url}, fmt.Errorf("browser fetch failed: %w", err)
	}
	return types.SourcePage{URL: url, HTML: html, Method: types.FetchBrowser}, nil
}

func (f *Fetcher) waitSelector(url string) string {
	if f.rules == nil {
		return ""
	}
	if rs := f.rules.Lookup(rules.DomainFromURL(url)); rs != nil {
		return rs.WaitCSS
	}
	return ""
}

// LooksBlockedOrEmpty detects bot-wall interstitials and stub
// responses that need the browser fallback.
func LooksBlockedOrEmpty(html string) bool {
	h := strings.ToLower(html)
	return len(h) < 2500 ||
		strings.Contains(h, "cf-browser-verification") ||
		(strings.Contains(h, "cloudflare") && strings.Contains(h, "attention required")) ||
		strings.Contains(h, "<title>just a moment")
}

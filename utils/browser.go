package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"gomag-importer/internal/types"
)

// BrowserClient fetches pages through a headless browser, for
// suppliers whose product data only exists after JavaScript runs or
// who sit behind a bot wall the plain client cannot pass.
type BrowserClient struct {
	config *types.Config
	logger types.Logger
}

// NewBrowserClient creates a new browser client.
func NewBrowserClient(config *types.Config, logger types.Logger) *BrowserClient {
	return &BrowserClient{
		config: config,
		logger: logger,
	}
}

// GetPageContent retrieves the rendered HTML of a page. A non-empty
// waitSelector blocks until that element is visible, the deterministic
// alternative to the settle delay for suppliers whose product block
// renders late.
func (b *BrowserClient) GetPageContent(ctx context.Context, url, waitSelector string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, b.config.Timeout)
	defer cancel()

	settle := chromedp.Sleep(500 * time.Millisecond) // let late-loading product widgets settle
	if waitSelector != "" {
		settle = chromedp.WaitVisible(waitSelector)
	}

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		settle,
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("failed to get page content: %w", err)
	}

	b.logger.Debugf("Browser retrieved %d bytes from %s", len(html), url)
	return html, nil
}

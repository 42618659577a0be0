// Package pipeline runs the per-URL import stages over a batch:
// fetch, extract, normalize price, resolve SKU, translate, assemble,
// and optionally submit. URLs are independent of each other; failures
// are isolated per URL and the report preserves input order no matter
// which worker finished first.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"gomag-importer/assemble"
	"gomag-importer/extractor"
	"gomag-importer/internal/observability"
	"gomag-importer/internal/types"
	"gomag-importer/pricing"
	"gomag-importer/sku"
	"gomag-importer/translate"
)

// PageFetcher retrieves one supplier page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (types.SourcePage, error)
}

// Submitter pushes one assembled record to the platform. A nil
// submitter makes the run export-only.
type Submitter interface {
	ProductWrite(ctx context.Context, record types.ImportRecord) error
}

// Pipeline holds the per-run stage implementations. All of them are
// read-only during a run, so workers share them freely.
type Pipeline struct {
	config     *types.Config
	fetcher    PageFetcher
	extractor  *extractor.Extractor
	pricer     *pricing.Normalizer
	translator translate.Translator
	submitter  Submitter
	logger     types.Logger
}

// New wires the import stages together.
func New(
	config *types.Config,
	fetcher PageFetcher,
	ex *extractor.Extractor,
	translator translate.Translator,
	submitter Submitter,
	logger types.Logger,
) *Pipeline {
	return &Pipeline{
		config:     config,
		fetcher:    fetcher,
		extractor:  ex,
		pricer:     pricing.NewNormalizer(config.Rates, config.MarkupPercent),
		translator: translator,
		submitter:  submitter,
		logger:     logger,
	}
}

// Run processes the URL batch with a bounded worker pool and returns
// the report in input order. Cancelling the context abandons the URLs
// no worker has picked up yet; finished results are kept as-is.
func (p *Pipeline) Run(ctx context.Context, urls []string) types.BatchReport {
	report := types.BatchReport{
		RunID:   uuid.New().String(),
		Started: time.Now().UTC(),
		Results: make([]types.Result, len(urls)),
	}

	workers := p.config.WorkerCount
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				report.Results[idx] = p.processOne(ctx, urls[idx])
			}
		}()
	}

feed:
	for idx := range urls {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for idx := range report.Results {
		if report.Results[idx].Status == "" {
			report.Results[idx] = types.Result{
				URL:    urls[idx],
				Status: types.StatusSkipped,
				Reason: "run cancelled",
			}
		}
	}

	report.Finished = time.Now().UTC()
	return report
}

// processOne runs every stage for a single URL. A fetch failure still
// yields a degraded record (floor price, generated SKU) so the batch
// report has something reviewable, but the URL is marked failed.
func (p *Pipeline) processOne(ctx context.Context, url string) types.Result {
	started := time.Now()

	page, fetchErr := p.fetcher.Fetch(ctx, url)
	if fetchErr != nil {
		p.logger.Warnf("Fetch failed for %s: %v", url, fetchErr)
	} else {
		observability.PagesFetched.WithLabelValues(string(page.Method)).Inc()
	}

	extracted := p.extractor.Extract(page)
	price := p.pricer.Normalize(extracted.Price)
	resolved := sku.Resolve(extracted.SKUCandidates, url)
	translated := translate.Product(ctx, p.translator, extracted)
	record := assemble.Assemble(translated, price, resolved, p.config.CategoryID)

	result := types.Result{
		URL:       url,
		Record:    &record,
		FetchedBy: page.Method,
	}

	switch {
	case fetchErr != nil:
		result.Status = types.StatusFailed
		result.Reason = fmt.Sprintf("fetch failed: %v", fetchErr)
	case p.submitter == nil:
		result.Status = types.StatusExported
	default:
		if err := p.submitter.ProductWrite(ctx, record); err != nil {
			p.logger.Errorf("Submission failed for %s (sku %s): %v", url, record.SKU, err)
			result.Status = types.StatusFailed
			result.Reason = fmt.Sprintf("submission failed: %v", err)
		} else {
			p.logger.Infof("Imported %s as %s (%.2f %s)", url, record.SKU, record.Price.Amount, record.Price.Currency)
			result.Status = types.StatusImported
		}
	}

	observability.RecordsProcessed.WithLabelValues(string(result.Status)).Inc()
	result.Elapsed = time.Since(started)
	return result
}

// Package crawler drives batched, bounded-concurrency extraction of
// product pages through a shared browser session.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/maltedev/shopify-catalog-scraper/internal/models"
)

const DefaultBatchSize = 10

// Sink receives each batch's surviving rows as one durable append.
type Sink interface {
	AppendRows(rows [][]string) error
}

// PageFetcher loads one URL and extracts its record. Implementations
// own page lifecycle; a returned error means the URL yields no record.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*models.ProductRecord, error)
}

// RecordStore optionally mirrors extracted records (e.g. to Postgres).
// Store failures are logged, never fatal to the crawl.
type RecordStore interface {
	SaveBatch(ctx context.Context, runID string, results []models.ScrapeResult) error
}

// SeenMarker optionally marks successfully extracted URLs so an
// interrupted run can resume without refetching them.
type SeenMarker interface {
	MarkSeen(ctx context.Context, urls []string) error
}

// ConfirmFunc blocks until the operator confirms crawling may begin
// (manual login flow). Invoked once, before the first batch.
type ConfirmFunc func() error

type Options struct {
	BatchSize   int
	MaxProducts int
	Store       RecordStore
	Seen        SeenMarker
	Confirm     ConfirmFunc
}

type Crawler struct {
	fetcher     PageFetcher
	sink        Sink
	store       RecordStore
	seen        SeenMarker
	confirm     ConfirmFunc
	batchSize   int
	maxProducts int
	runID       string
	logger      *slog.Logger
}

func New(fetcher PageFetcher, sink Sink, opts Options) *Crawler {
	if opts.BatchSize < 1 {
		opts.BatchSize = DefaultBatchSize
	}
	runID := uuid.NewString()
	return &Crawler{
		fetcher:     fetcher,
		sink:        sink,
		store:       opts.Store,
		seen:        opts.Seen,
		confirm:     opts.Confirm,
		batchSize:   opts.BatchSize,
		maxProducts: opts.MaxProducts,
		runID:       runID,
		logger:      slog.Default().With("component", "crawler", "run_id", runID),
	}
}

// Run crawls urls in fixed-size batches. All URLs within a batch are
// fetched concurrently; the next batch starts only after every fetch of
// the current one has settled. It returns the number of records
// written.
func (c *Crawler) Run(ctx context.Context, urls []string) (int, error) {
	if c.confirm != nil {
		if err := c.confirm(); err != nil {
			return 0, fmt.Errorf("confirmation aborted: %w", err)
		}
	}

	limit := len(urls)
	if c.maxProducts > 0 && c.maxProducts < limit {
		limit = c.maxProducts
	}

	processed := 0
	for i := 0; i < limit; i += c.batchSize {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		end := i + c.batchSize
		if end > limit {
			end = limit
		}
		batch := urls[i:end]

		results := make([]*models.ProductRecord, len(batch))
		var wg sync.WaitGroup
		for j, u := range batch {
			wg.Add(1)
			go func(j int, u string) {
				defer wg.Done()
				rec, err := c.fetcher.Fetch(ctx, u)
				if err != nil {
					c.logger.Error("failed to scrape product page", "url", u, "error", err)
					return
				}
				results[j] = rec
			}(j, u)
		}
		wg.Wait()

		survivors := make([]models.ScrapeResult, 0, len(batch))
		rows := make([][]string, 0, len(batch))
		for j, rec := range results {
			if rec == nil {
				continue
			}
			survivors = append(survivors, models.ScrapeResult{URL: batch[j], Record: *rec})
			rows = append(rows, rec.CSVRow())
		}

		if len(rows) > 0 {
			if err := c.sink.AppendRows(rows); err != nil {
				return processed, fmt.Errorf("append batch: %w", err)
			}
			processed += len(rows)
			c.mirror(ctx, survivors)
		}

		c.logger.Info("batch complete", "progress", end, "total", limit)
	}

	return processed, nil
}

// mirror forwards the batch to the optional store and seen-cache
// collaborators. Their failures never abort the crawl.
func (c *Crawler) mirror(ctx context.Context, results []models.ScrapeResult) {
	if c.store != nil {
		if err := c.store.SaveBatch(ctx, c.runID, results); err != nil {
			c.logger.Error("failed to mirror batch to store", "error", err)
		}
	}
	if c.seen != nil {
		urls := make([]string, len(results))
		for i, r := range results {
			urls[i] = r.URL
		}
		if err := c.seen.MarkSeen(ctx, urls); err != nil {
			c.logger.Error("failed to mark urls as seen", "error", err)
		}
	}
}

package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
	"github.com/maltedev/shopify-catalog-scraper/internal/browser"
	"github.com/maltedev/shopify-catalog-scraper/internal/extractor"
	"github.com/maltedev/shopify-catalog-scraper/internal/models"
)

const navigationTimeout = 60 * time.Second

// BrowserFetcher fetches product pages through the shared browser
// session, one short-lived page per URL.
type BrowserFetcher struct {
	browser   *browser.Browser
	extractor *extractor.Extractor
	logger    *slog.Logger
}

func NewBrowserFetcher(b *browser.Browser, e *extractor.Extractor) *BrowserFetcher {
	return &BrowserFetcher{
		browser:   b,
		extractor: e,
		logger:    slog.Default().With("component", "fetcher"),
	}
}

// Fetch opens an isolated page, navigates with the batch-mode timeout,
// snapshots the document and extracts the record. The page is closed on
// every exit path.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (*models.ProductRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := f.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer page.Close()

	_, err = page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(navigationTimeout.Milliseconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("read page content: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page content: %w", err)
	}

	rec := f.extractor.Extract(doc)
	f.logger.Debug("extracted product", "url", url, "sku", rec.SKU)
	return &rec, nil
}

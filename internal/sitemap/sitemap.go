// Package sitemap discovers a site's product page URLs from its sitemap.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/maltedev/shopify-catalog-scraper/internal/urlset"
)

const (
	rootSitemapPath    = "/sitemap.xml"
	productSitemapHint = "sitemap_products"
	productPathHint    = "/products/"
)

type Discoverer struct {
	client *http.Client
	logger *slog.Logger
}

func NewDiscoverer(client *http.Client) *Discoverer {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Discoverer{
		client: client,
		logger: slog.Default().With("component", "sitemap"),
	}
}

// Discover fetches baseURL's root sitemap, selects product sub-sitemaps
// and returns every product page URL in first-seen order. A fetch
// failure on the root document or on any sub-sitemap aborts discovery.
func (d *Discoverer) Discover(ctx context.Context, baseURL string) (*urlset.Set, error) {
	rootURL := strings.TrimRight(baseURL, "/") + rootSitemapPath

	d.logger.Info("fetching root sitemap", "url", rootURL)
	rootLocs, err := d.fetchLocations(ctx, rootURL)
	if err != nil {
		return nil, fmt.Errorf("fetch root sitemap: %w", err)
	}

	candidates := make([]string, 0, len(rootLocs))
	for _, loc := range rootLocs {
		if strings.Contains(loc, productSitemapHint) {
			candidates = append(candidates, loc)
		}
	}
	if len(candidates) == 0 {
		candidates = rootLocs
	}

	set := urlset.New()
	for _, candidate := range candidates {
		locs, err := d.fetchLocations(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("fetch sub-sitemap %s: %w", candidate, err)
		}
		for _, loc := range locs {
			if strings.Contains(loc, productPathHint) {
				set.Add(loc)
			}
		}
		d.logger.Debug("parsed sub-sitemap", "url", candidate, "locations", len(locs))
	}

	d.logger.Info("discovery complete", "products", set.Len(), "sitemaps", len(candidates))
	return set, nil
}

// fetchLocations returns the trimmed text of every <loc> element in
// document order. Whitespace-only entries are dropped; duplicates are
// kept (the caller's set merges them).
func (d *Discoverer) fetchLocations(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return parseLocations(resp.Body)
}

func parseLocations(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var locs []string
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse sitemap xml: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "loc" {
			continue
		}

		var loc string
		if err := decoder.DecodeElement(&loc, &se); err != nil {
			return nil, fmt.Errorf("decode loc element: %w", err)
		}
		loc = strings.TrimSpace(loc)
		if loc != "" {
			locs = append(locs, loc)
		}
	}

	return locs, nil
}

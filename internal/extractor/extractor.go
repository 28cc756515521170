// Package extractor resolves a product record from a loaded page's HTML
// snapshot. Strategies run in fixed priority order and only ever fill
// fields left empty by higher-priority strategies; the discontinued-name
// override is applied last, unconditionally.
package extractor

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/shopify-catalog-scraper/internal/models"
)

const discontinuedMarker = "[discontinued]"

// Strategy produces a partial record from the page snapshot. Fields the
// strategy is not confident about stay empty.
type Strategy interface {
	Name() string
	Extract(doc *goquery.Document) models.ProductRecord
}

type chainEntry struct {
	strategy Strategy
	// skip short-circuits the strategy based on what higher-priority
	// strategies already resolved.
	skip func(models.ProductRecord) bool
}

type Extractor struct {
	chain  []chainEntry
	logger *slog.Logger
}

func New() *Extractor {
	return &Extractor{
		logger: slog.Default().With("component", "extractor"),
		chain: []chainEntry{
			{strategy: &jsonLDStrategy{}},
			{
				strategy: &shopifyMetaStrategy{},
				// Platform metadata only fills gaps when structured
				// data did not identify the product.
				skip: func(r models.ProductRecord) bool { return r.SKU != "" },
			},
			{strategy: &domStrategy{}},
		},
	}
}

// Extract runs the strategy chain and returns a complete record. It
// never fails; unresolved fields remain empty strings.
func (e *Extractor) Extract(doc *goquery.Document) models.ProductRecord {
	var rec models.ProductRecord
	for _, entry := range e.chain {
		if entry.skip != nil && entry.skip(rec) {
			continue
		}
		before := rec
		rec = merge(rec, entry.strategy.Extract(doc))
		if resolved := resolvedFields(before, rec); len(resolved) > 0 {
			e.logger.Debug("strategy resolved fields",
				"strategy", entry.strategy.Name(), "fields", resolved)
		}
	}
	return applyDiscontinuedOverride(rec)
}

// resolvedFields names the fields merged filled that base had left empty.
func resolvedFields(base, merged models.ProductRecord) []string {
	var fields []string
	if base.Name == "" && merged.Name != "" {
		fields = append(fields, "name")
	}
	if base.SKU == "" && merged.SKU != "" {
		fields = append(fields, "sku")
	}
	if base.Price == "" && merged.Price != "" {
		fields = append(fields, "price")
	}
	if base.Availability == "" && merged.Availability != "" {
		fields = append(fields, "availability")
	}
	return fields
}

// merge fills only the fields base has not resolved yet.
func merge(base, patch models.ProductRecord) models.ProductRecord {
	if base.Name == "" {
		base.Name = patch.Name
	}
	if base.SKU == "" {
		base.SKU = patch.SKU
	}
	if base.Price == "" {
		base.Price = patch.Price
	}
	if base.Availability == "" {
		base.Availability = patch.Availability
	}
	return base
}

// applyDiscontinuedOverride forces availability for products whose name
// carries the discontinued marker, regardless of what any strategy
// detected.
func applyDiscontinuedOverride(rec models.ProductRecord) models.ProductRecord {
	if strings.Contains(strings.ToLower(rec.Name), discontinuedMarker) {
		rec.Availability = "Discontinued"
	}
	return rec
}

// lastPathSegment reduces schema-URI style values like
// "https://schema.org/InStock" to their final segment.
func lastPathSegment(s string) string {
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

package extractor

import (
	"encoding/json"
	"html"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/shopify-catalog-scraper/internal/models"
)

// jsonLDStrategy reads embedded JSON-LD structured data. The first
// script block describing a Product entity wins; malformed blocks are
// skipped, not fatal.
type jsonLDStrategy struct{}

func (s *jsonLDStrategy) Name() string { return "jsonld" }

func (s *jsonLDStrategy) Extract(doc *goquery.Document) models.ProductRecord {
	var rec models.ProductRecord

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
			return true
		}

		product := findProductNode(data)
		if product == nil {
			return true
		}

		rec = recordFromProduct(product)
		return false
	})

	return rec
}

// findProductNode locates the first entity whose @type is (or includes)
// "Product" in a top-level object, a top-level array, or an @graph.
func findProductNode(data any) map[string]any {
	switch v := data.(type) {
	case map[string]any:
		if typeIncludesProduct(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"].([]any); ok {
			return findProductInList(graph)
		}
	case []any:
		return findProductInList(v)
	}
	return nil
}

func findProductInList(items []any) map[string]any {
	for _, item := range items {
		if m, ok := item.(map[string]any); ok && typeIncludesProduct(m["@type"]) {
			return m
		}
	}
	return nil
}

func typeIncludesProduct(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Product"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Product" {
				return true
			}
		}
	}
	return false
}

func recordFromProduct(product map[string]any) models.ProductRecord {
	rec := models.ProductRecord{
		Name: html.UnescapeString(stringValue(product["name"])),
		SKU:  html.UnescapeString(stringValue(product["sku"])),
	}

	offer := firstOffer(product["offers"])
	if offer == nil {
		return rec
	}

	rec.Price = stringValue(offer["price"])
	if rec.Price == "" {
		if spec, ok := offer["priceSpecification"].(map[string]any); ok {
			rec.Price = stringValue(spec["price"])
		}
	}

	if avail := availabilityValue(offer["availability"]); avail != "" {
		rec.Availability = lastPathSegment(avail)
	}

	return rec
}

// firstOffer handles offers published as a single object or a list.
func firstOffer(offers any) map[string]any {
	switch v := offers.(type) {
	case map[string]any:
		return v
	case []any:
		if len(v) > 0 {
			if m, ok := v[0].(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

// availabilityValue handles the three published shapes: a plain string,
// a list (first element wins) or an object carrying name or @id.
func availabilityValue(avail any) string {
	switch v := avail.(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		if len(v) > 0 {
			return availabilityValue(v[0])
		}
	case map[string]any:
		if name := stringValue(v["name"]); name != "" {
			return name
		}
		return stringValue(v["@id"])
	}
	return ""
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

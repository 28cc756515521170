package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/shopify-catalog-scraper/internal/models"
)

// domStrategy is the last resort: raw DOM heuristics, applied per field
// independently against common storefront markup.
type domStrategy struct{}

var (
	numericPattern       = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	decimalPattern       = regexp.MustCompile(`\d+(?:\.\d+)?`)
	stockLabelPattern    = regexp.MustCompile(`(?i)(?:stock|availability)\s*:\s*([^\n]+)`)
	unitsLeftPattern     = regexp.MustCompile(`(?i)only\s+\d+\s+units?\s+left`)
	skuLabelPattern      = regexp.MustCompile(`(?i)sku\s*:\s*([A-Za-z0-9_\-\.]+)`)
	priceSelectors       = `.price, .product-price, .price-item, .product__price`
	stockSelectors       = `[data-stock], .stock, .availability, .product-availability, .stock-status`
	skuSelectors         = `[data-sku], .sku, .product-sku, [itemprop="sku"]`
)

func (s *domStrategy) Name() string { return "dom" }

func (s *domStrategy) Extract(doc *goquery.Document) models.ProductRecord {
	return models.ProductRecord{
		Name:         strings.TrimSpace(doc.Find("h1").First().Text()),
		Price:        s.extractPrice(doc),
		Availability: s.extractAvailability(doc),
		SKU:          s.extractSKU(doc),
	}
}

func (s *domStrategy) extractPrice(doc *goquery.Document) string {
	raw := ""

	if content, ok := doc.Find(`meta[property="product:price:amount"]`).Attr("content"); ok {
		raw = content
	}

	if strings.TrimSpace(raw) == "" {
		microdata := doc.Find(`[itemprop="price"]`).First()
		if microdata.Length() > 0 {
			if content, ok := microdata.Attr("content"); ok && strings.TrimSpace(content) != "" {
				raw = content
			} else {
				raw = microdata.Text()
			}
		}
	}

	if strings.TrimSpace(raw) == "" {
		raw = doc.Find(priceSelectors).First().Text()
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if numericPattern.MatchString(raw) {
		return raw
	}
	return decimalPattern.FindString(raw)
}

func (s *domStrategy) extractAvailability(doc *goquery.Document) string {
	raw := strings.TrimSpace(doc.Find(stockSelectors).First().Text())

	if raw == "" {
		body := visibleBodyText(doc)
		if m := stockLabelPattern.FindStringSubmatch(body); m != nil {
			raw = strings.TrimSpace(m[1])
		} else if m := unitsLeftPattern.FindString(body); m != "" {
			raw = m
		}
	}

	if raw == "" {
		return ""
	}
	return lastPathSegment(normalizeAvailabilityText(raw))
}

func normalizeAvailabilityText(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "in stock"), strings.Contains(lower, "units left"):
		return "InStock"
	case strings.Contains(lower, "out of stock"), strings.Contains(lower, "sold out"):
		return "OutOfStock"
	default:
		return raw
	}
}

func (s *domStrategy) extractSKU(doc *goquery.Document) string {
	if sku := strings.TrimSpace(doc.Find(skuSelectors).First().Text()); sku != "" {
		return sku
	}
	if m := skuLabelPattern.FindStringSubmatch(visibleBodyText(doc)); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// visibleBodyText returns body text with script and style content
// removed so label searches never match embedded JSON or CSS.
func visibleBodyText(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	body.Find("script, style").Remove()
	return body.Text()
}

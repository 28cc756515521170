package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/shopify-catalog-scraper/internal/models"
)

// shopifyMetaStrategy reads the platform's in-page `var meta = {...}`
// product object. It only runs when structured data left the SKU
// unresolved, and it only fills fields that are still empty.
type shopifyMetaStrategy struct{}

type shopifyMeta struct {
	Product struct {
		Type     string `json:"type"`
		Variants []struct {
			Name  string `json:"name"`
			SKU   string `json:"sku"`
			Price int64  `json:"price"`
		} `json:"variants"`
	} `json:"product"`
}

func (s *shopifyMetaStrategy) Name() string { return "shopify-meta" }

func (s *shopifyMetaStrategy) Extract(doc *goquery.Document) models.ProductRecord {
	var rec models.ProductRecord

	meta, ok := findMetaObject(doc)
	if !ok || len(meta.Product.Variants) == 0 {
		return rec
	}

	variant := meta.Product.Variants[0]
	rec.SKU = strings.TrimSpace(variant.SKU)
	// Variant prices are integers in minor units.
	rec.Price = fmt.Sprintf("%.2f", float64(variant.Price)/100)

	if meta.Product.Type == "Case" {
		if handle := productHandle(doc); handle != "" {
			rec.Name = humanizeHandle(handle)
		}
	}
	if rec.Name == "" {
		rec.Name = strings.TrimSpace(variant.Name)
	}
	if rec.Name == "" {
		rec.Name = strings.TrimSpace(doc.Find("title").First().Text())
	}

	return rec
}

func findMetaObject(doc *goquery.Document) (shopifyMeta, bool) {
	var meta shopifyMeta
	found := false

	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if !strings.Contains(text, "var meta") {
			return true
		}

		start := strings.Index(text, "{")
		if start < 0 {
			return true
		}

		// The script continues past the object (the analytics loop
		// follows the assignment), so decode only the first JSON value.
		dec := json.NewDecoder(strings.NewReader(text[start:]))
		if err := dec.Decode(&meta); err != nil {
			return true
		}
		found = true
		return false
	})

	return meta, found
}

// productHandle derives the product handle from the canonical URL's
// final /products/ path segment.
func productHandle(doc *goquery.Document) string {
	href, ok := doc.Find(`link[rel="canonical"]`).Attr("href")
	if !ok {
		href, ok = doc.Find(`meta[property="og:url"]`).Attr("content")
		if !ok {
			return ""
		}
	}

	idx := strings.Index(href, "/products/")
	if idx < 0 {
		return ""
	}
	handle := href[idx+len("/products/"):]
	if cut := strings.IndexAny(handle, "?#/"); cut >= 0 {
		handle = handle[:cut]
	}
	return handle
}

func humanizeHandle(handle string) string {
	words := strings.Split(handle, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

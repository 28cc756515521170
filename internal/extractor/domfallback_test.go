package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDOMExtractName(t *testing.T) {
	rec := (&domStrategy{}).Extract(parseHTML(t, `<html><body><h1>  Blue Widget  </h1><h1>Second</h1></body></html>`))
	assert.Equal(t, "Blue Widget", rec.Name)
}

func TestDOMExtractPrice(t *testing.T) {
	strategy := &domStrategy{}

	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "meta price tag",
			html:     `<html><head><meta property="product:price:amount" content="19.99"></head><body></body></html>`,
			expected: "19.99",
		},
		{
			name:     "itemprop content attribute",
			html:     `<html><body><span itemprop="price" content="24.00">$24</span></body></html>`,
			expected: "24.00",
		},
		{
			name:     "itemprop text",
			html:     `<html><body><span itemprop="price">31.50</span></body></html>`,
			expected: "31.50",
		},
		{
			name:     "price class with currency symbol",
			html:     `<html><body><div class="price">$42.95 USD</div></body></html>`,
			expected: "42.95",
		},
		{
			name:     "purely numeric text kept as is",
			html:     `<html><body><div class="product-price">15.00</div></body></html>`,
			expected: "15.00",
		},
		{
			name:     "no price markup",
			html:     `<html><body><p>hello</p></body></html>`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := strategy.Extract(parseHTML(t, tt.html))
			assert.Equal(t, tt.expected, rec.Price)
		})
	}
}

func TestDOMExtractAvailability(t *testing.T) {
	strategy := &domStrategy{}

	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "stock class in stock",
			html:     `<html><body><div class="stock-status">In Stock</div></body></html>`,
			expected: "InStock",
		},
		{
			name:     "stock class sold out",
			html:     `<html><body><div class="availability">Sold out</div></body></html>`,
			expected: "OutOfStock",
		},
		{
			name:     "currently out of stock text",
			html:     `<html><body><span class="stock">Currently Out of Stock</span></body></html>`,
			expected: "OutOfStock",
		},
		{
			name:     "data-stock attribute element",
			html:     `<html><body><span data-stock="yes">In stock, ships today</span></body></html>`,
			expected: "InStock",
		},
		{
			name:     "body text stock label",
			html:     `<html><body><p>Stock: available on request</p></body></html>`,
			expected: "available on request",
		},
		{
			name:     "body text availability label",
			html:     `<html><body><p>Availability: In Stock</p></body></html>`,
			expected: "InStock",
		},
		{
			name:     "only n units left implies in stock",
			html:     `<html><body><p>Hurry! Only 3 units left.</p></body></html>`,
			expected: "InStock",
		},
		{
			name:     "schema uri value reduced to final segment",
			html:     `<html><body><div class="stock">https://schema.org/Discontinued</div></body></html>`,
			expected: "Discontinued",
		},
		{
			name:     "label search ignores script content",
			html:     `<html><body><script>{"availability":"https://schema.org/InStock"}</script><p>no signals</p></body></html>`,
			expected: "",
		},
		{
			name:     "no availability markup",
			html:     `<html><body><p>hello</p></body></html>`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := strategy.Extract(parseHTML(t, tt.html))
			assert.Equal(t, tt.expected, rec.Availability)
		})
	}
}

func TestDOMExtractSKU(t *testing.T) {
	strategy := &domStrategy{}

	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "sku class",
			html:     `<html><body><span class="sku">W-100</span></body></html>`,
			expected: "W-100",
		},
		{
			name:     "itemprop sku",
			html:     `<html><body><span itemprop="sku">ABC-9</span></body></html>`,
			expected: "ABC-9",
		},
		{
			name:     "body text label",
			html:     `<html><body><p>SKU: XYZ-55</p></body></html>`,
			expected: "XYZ-55",
		},
		{
			name:     "no sku markup",
			html:     `<html><body><p>hello</p></body></html>`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := strategy.Extract(parseHTML(t, tt.html))
			assert.Equal(t, tt.expected, rec.SKU)
		})
	}
}

func TestNormalizeAvailabilityText(t *testing.T) {
	assert.Equal(t, "InStock", normalizeAvailabilityText("In Stock"))
	assert.Equal(t, "InStock", normalizeAvailabilityText("only 2 units left"))
	assert.Equal(t, "OutOfStock", normalizeAvailabilityText("Currently Out of Stock"))
	assert.Equal(t, "OutOfStock", normalizeAvailabilityText("SOLD OUT"))
	assert.Equal(t, "Backordered", normalizeAvailabilityText("Backordered"))
}

package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShopifyMetaExtract(t *testing.T) {
	strategy := &shopifyMetaStrategy{}

	tests := []struct {
		name     string
		html     string
		expName  string
		expSKU   string
		expPrice string
	}{
		{
			name: "variant sku and minor-unit price",
			html: `<html><head>
				<script>var meta = {"product":{"type":"Gadget","variants":[{"name":"Widget Blue","sku":"W-BLUE","price":1999}]}};</script>
				</head><body></body></html>`,
			expName:  "Widget Blue",
			expSKU:   "W-BLUE",
			expPrice: "19.99",
		},
		{
			name: "price always formats two decimals",
			html: `<html><head>
				<script>var meta = {"product":{"type":"Gadget","variants":[{"name":"Widget","sku":"W-1","price":500}]}};</script>
				</head><body></body></html>`,
			expName:  "Widget",
			expSKU:   "W-1",
			expPrice: "5.00",
		},
		{
			name: "case product prefers handle-based name",
			html: `<html><head>
				<link rel="canonical" href="https://shop.example.com/products/iphone-15-clear-case">
				<script>var meta = {"product":{"type":"Case","variants":[{"name":"Default Title","sku":"CASE-1","price":2500}]}};</script>
				</head><body></body></html>`,
			expName:  "Iphone 15 Clear Case",
			expSKU:   "CASE-1",
			expPrice: "25.00",
		},
		{
			name: "falls back to document title when variant name empty",
			html: `<html><head>
				<title>Widget Deluxe</title>
				<script>var meta = {"product":{"type":"Gadget","variants":[{"sku":"W-2","price":100}]}};</script>
				</head><body></body></html>`,
			expName:  "Widget Deluxe",
			expSKU:   "W-2",
			expPrice: "1.00",
		},
		{
			name: "tolerates trailing analytics loop after the object",
			html: `<html><head>
				<script>var meta = {"product":{"type":"Gadget","variants":[{"name":"Widget","sku":"W-1","price":1999}]}};
for (var attr in meta) {
  window.ShopifyAnalytics.meta[attr] = meta[attr];
}</script>
				</head><body></body></html>`,
			expName:  "Widget",
			expSKU:   "W-1",
			expPrice: "19.99",
		},
		{
			name: "no variants yields nothing",
			html: `<html><head>
				<script>var meta = {"product":{"type":"Gadget","variants":[]}};</script>
				</head><body></body></html>`,
		},
		{
			name: "no meta object yields nothing",
			html: `<html><head><script>var other = 1;</script></head><body></body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := strategy.Extract(parseHTML(t, tt.html))

			assert.Equal(t, tt.expName, rec.Name)
			assert.Equal(t, tt.expSKU, rec.SKU)
			assert.Equal(t, tt.expPrice, rec.Price)
			assert.Empty(t, rec.Availability)
		})
	}
}

func TestHumanizeHandle(t *testing.T) {
	assert.Equal(t, "Iphone 15 Clear Case", humanizeHandle("iphone-15-clear-case"))
	assert.Equal(t, "Widget", humanizeHandle("widget"))
}

func TestProductHandleFromOGURL(t *testing.T) {
	html := `<html><head>
		<meta property="og:url" content="https://shop.example.com/products/red-widget?variant=1">
		</head><body></body></html>`

	assert.Equal(t, "red-widget", productHandle(parseHTML(t, html)))
}

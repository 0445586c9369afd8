package goquery_test

import (
	"testing"

	"github.com/fwojciec/prodex"
	"github.com/fwojciec/prodex/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure SheetExtractor implements prodex.SheetExtractor at compile time.
var _ prodex.SheetExtractor = (*goquery.SheetExtractor)(nil)

func TestSheetExtractor_ExtractSheet(t *testing.T) {
	t.Parallel()

	t.Run("extracts product fields from JSON-LD", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Product",
  "name": "20V MAX Compact Drill Kit",
  "description": "Compact drill with battery and charger.",
  "category": "Cordless Drills",
  "sku": "2385458",
  "brand": {"@type": "Brand", "name": "DeWalt"},
  "color": "Yellow",
  "image": ["https://cdn.example.com/products/drill-front.jpg", "https://cdn.example.com/products/drill-side.jpg"],
  "positiveNotes": ["Compact, lightweight design", "Ergonomic handle"],
  "offers": {"@type": "Offer", "price": "129.00", "priceCurrency": "USD"}
}
</script>
</head>
<body></body>
</html>`

		sheet := goquery.NewSheetExtractor().ExtractSheet(html)

		assert.Equal(t, "20V MAX Compact Drill Kit", sheet.Name)
		assert.Equal(t, "DeWalt", sheet.Brand)
		assert.Equal(t, "Cordless Drills", sheet.Category)
		assert.Equal(t, []string{"Compact, lightweight design", "Ergonomic handle"}, sheet.KeyFeatures)
		assert.Equal(t, []string{"Yellow"}, sheet.Colors)
		assert.Len(t, sheet.ImageURLs, 2)

		require.NotNil(t, sheet.Price)
		assert.Equal(t, 129.00, sheet.Price.Amount)
		assert.Equal(t, "USD", sheet.Price.Currency)

		// SKU without hasVariant becomes a single variant.
		require.Len(t, sheet.Variants, 1)
		assert.Equal(t, "2385458", sheet.Variants[0].SKU)
		require.NotNil(t, sheet.Variants[0].Price)
		assert.Equal(t, 129.00, *sheet.Variants[0].Price)
	})

	t.Run("structured price overrides metadata price", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<meta property="product:price:amount" content="59.99">
<meta property="product:price:currency" content="EUR">
<script type="application/ld+json">
{"@type": "Product", "name": "Widget", "offers": {"price": "49.99", "priceCurrency": "USD"}}
</script>
</head><body></body></html>`

		sheet := goquery.NewSheetExtractor().ExtractSheet(html)

		require.NotNil(t, sheet.Price)
		assert.Equal(t, 49.99, sheet.Price.Amount)
		assert.Equal(t, "USD", sheet.Price.Currency)
		assert.Equal(t, prodex.SourceStructured, sheet.SourceOf(prodex.FieldPrice))
	})

	t.Run("falls back to metadata tags when JSON-LD is absent", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<meta property="og:title" content="Trail Running Shoe">
<meta property="og:description" content="Light and grippy.">
<meta property="og:image" content="https://cdn.example.com/shoe.jpg">
<meta property="product:brand" content="Acme">
</head><body></body></html>`

		sheet := goquery.NewSheetExtractor().ExtractSheet(html)

		assert.Equal(t, "Trail Running Shoe", sheet.Name)
		assert.Equal(t, "Light and grippy.", sheet.Description)
		assert.Equal(t, "Acme", sheet.Brand)
		assert.Equal(t, []string{"https://cdn.example.com/shoe.jpg"}, sheet.ImageURLs)
		assert.Equal(t, prodex.SourceMetadata, sheet.SourceOf(prodex.FieldName))
	})

	t.Run("malformed JSON-LD block does not abort other blocks", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<script type="application/ld+json">{not json at all</script>
<script type="application/ld+json">{"@type": "Product", "name": "Survivor"}</script>
</head><body></body></html>`

		sheet := goquery.NewSheetExtractor().ExtractSheet(html)

		assert.Equal(t, "Survivor", sheet.Name)
	})

	t.Run("finds Product inside @graph and type lists", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<script type="application/ld+json">
{"@graph": [
  {"@type": "BreadcrumbList"},
  {"@type": ["Thing", "Product"], "name": "Graph Product"}
]}
</script>
</head><body></body></html>`

		sheet := goquery.NewSheetExtractor().ExtractSheet(html)

		assert.Equal(t, "Graph Product", sheet.Name)
	})

	t.Run("extracts variants from hasVariant", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<script type="application/ld+json">
{
  "@type": "Product",
  "name": "Sneaker",
  "hasVariant": [
    {"sku": "SNK-BLK-9", "color": "Black", "size": "9", "price": "89.99", "image": "https://cdn.example.com/snk-blk.jpg"},
    {"sku": "SNK-WHT-9", "color": "White", "size": "9"}
  ]
}
</script>
</head><body></body></html>`

		sheet := goquery.NewSheetExtractor().ExtractSheet(html)

		require.Len(t, sheet.Variants, 2)
		assert.Equal(t, "SNK-BLK-9", sheet.Variants[0].SKU)
		assert.Equal(t, "Black", sheet.Variants[0].Color)
		require.NotNil(t, sheet.Variants[0].Price)
		assert.Equal(t, 89.99, *sheet.Variants[0].Price)
		assert.Equal(t, "https://cdn.example.com/snk-blk.jpg", sheet.Variants[0].ImageURL)
		assert.Nil(t, sheet.Variants[1].Price)
	})

	t.Run("harvests colorways from embedded JSON state", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<script type="application/json">
{"props": {"pageProps": {"colorwayImages": [
  {"colorDescription": "Volt Green", "squarishImg": "https://cdn.example.com/volt.jpg", "sku": "CW-1", "price": 120},
  {"colorDescription": "Obsidian", "squarishImg": "https://cdn.example.com/obsidian.jpg", "sku": "CW-2"}
]}}}
</script>
</head><body></body></html>`

		sheet := goquery.NewSheetExtractor().ExtractSheet(html)

		assert.Equal(t, []string{"Volt Green", "Obsidian"}, sheet.Colors)
		assert.Equal(t, []string{"https://cdn.example.com/volt.jpg", "https://cdn.example.com/obsidian.jpg"}, sheet.ImageURLs)
		require.Len(t, sheet.Variants, 2)
		assert.Equal(t, "CW-1", sheet.Variants[0].SKU)
		require.NotNil(t, sheet.Variants[0].Price)
		assert.Equal(t, 120.0, *sheet.Variants[0].Price)
		assert.Equal(t, prodex.SourceEmbedded, sheet.SourceOf(prodex.FieldColors))
	})

	t.Run("empty document yields empty sheet", func(t *testing.T) {
		t.Parallel()

		sheet := goquery.NewSheetExtractor().ExtractSheet("<html><body><p>JS shell</p></body></html>")

		assert.True(t, sheet.IsEmpty())
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<meta property="og:title" content="Stable">
<script type="application/ld+json">{"@type": "Product", "name": "Stable", "color": "Red"}</script>
</head><body></body></html>`

		ext := goquery.NewSheetExtractor()
		first := ext.ExtractSheet(html)
		second := ext.ExtractSheet(html)

		assert.Equal(t, first.Name, second.Name)
		assert.Equal(t, first.Colors, second.Colors)
		assert.Equal(t, first.ImageURLs, second.ImageURLs)
	})

	t.Run("color list in JSON-LD becomes colors", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<script type="application/ld+json">{"@type": "Product", "name": "Runner", "color": ["Volt Green", "Obsidian"]}</script>
</head><body></body></html>`

		sheet := goquery.NewSheetExtractor().ExtractSheet(html)

		assert.Equal(t, []string{"Volt Green", "Obsidian"}, sheet.Colors)
	})

	t.Run("competing meta keys merge in fixed priority order", func(t *testing.T) {
		t.Parallel()

		// twitter:* and bare keys appear before their og:* counterparts in
		// the document; og:* must still win on every extraction.
		html := `<html><head>
<meta name="twitter:title" content="Twitter Title">
<meta name="description" content="Plain Desc">
<meta name="twitter:description" content="Twitter Desc">
<meta property="og:title" content="OG Title">
<meta property="og:description" content="OG Desc">
</head><body></body></html>`

		ext := goquery.NewSheetExtractor()
		for i := 0; i < 20; i++ {
			sheet := ext.ExtractSheet(html)
			assert.Equal(t, "OG Title", sheet.Name)
			assert.Equal(t, "OG Desc", sheet.Description)
		}
	})

	t.Run("embedded fallback harvest is deterministic across sibling keys", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<script type="application/json">
{"alpha": {"color": "Blue", "image": "https://cdn.example.com/blue.jpg"},
 "omega": {"color": "Red", "image": "https://cdn.example.com/red.jpg"}}
</script>
</head><body></body></html>`

		ext := goquery.NewSheetExtractor()
		for i := 0; i < 20; i++ {
			sheet := ext.ExtractSheet(html)
			assert.Equal(t, []string{"Blue", "Red"}, sheet.Colors)
			assert.Equal(t, []string{"https://cdn.example.com/blue.jpg", "https://cdn.example.com/red.jpg"}, sheet.ImageURLs)
		}
	})

	t.Run("extracts fields from data attributes", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div data-product-name="Trail Jacket" data-brand="Ridgeline" data-price="89.50" data-currency="EUR" data-sku="TJ-204"></div>
<img data-product-image="https://cdn.example.com/products/jacket.jpg">
</body></html>`

		sheet := goquery.NewSheetExtractor().ExtractSheet(html)

		assert.Equal(t, "Trail Jacket", sheet.Name)
		assert.Equal(t, "Ridgeline", sheet.Brand)
		assert.Equal(t, []string{"https://cdn.example.com/products/jacket.jpg"}, sheet.ImageURLs)

		require.NotNil(t, sheet.Price)
		assert.Equal(t, 89.50, sheet.Price.Amount)
		assert.Equal(t, "EUR", sheet.Price.Currency)

		require.Len(t, sheet.Variants, 1)
		assert.Equal(t, "TJ-204", sheet.Variants[0].SKU)
	})

	t.Run("meta tags outrank data attributes", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<meta property="og:title" content="Meta Name">
</head><body>
<div data-product-name="Attr Name" data-brand="Attr Brand"></div>
</body></html>`

		sheet := goquery.NewSheetExtractor().ExtractSheet(html)

		assert.Equal(t, "Meta Name", sheet.Name)
		assert.Equal(t, "Attr Brand", sheet.Brand)
	})
}

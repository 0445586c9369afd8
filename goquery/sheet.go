// Package goquery provides DOM-based extraction of machine-readable product
// signals: schema.org JSON-LD, framework-embedded JSON state, and page
// metadata tags.
package goquery

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/prodex"
)

// Ensure SheetExtractor implements prodex.SheetExtractor at compile time.
var _ prodex.SheetExtractor = (*SheetExtractor)(nil)

// SheetExtractor builds a truth sheet from a document's structured data.
type SheetExtractor struct{}

// NewSheetExtractor creates a new SheetExtractor.
func NewSheetExtractor() *SheetExtractor {
	return &SheetExtractor{}
}

// ExtractSheet scans the document for JSON-LD product markup, embedded JSON
// state, and metadata tags, merging discovered fields under the fixed source
// precedence. A parse failure in one block never aborts extraction of the
// others; unparseable documents yield an empty sheet.
func (e *SheetExtractor) ExtractSheet(html string) *prodex.TruthSheet {
	ts := prodex.NewTruthSheet()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ts
	}

	applyJSONLD(doc, ts)
	applyEmbeddedJSON(doc, ts)
	applyMetaTags(doc, ts)
	applyDataAttributes(doc, ts)

	return ts
}

// applyJSONLD extracts fields from schema.org Product blocks. Each script
// block is parsed independently so one malformed block cannot poison the
// rest.
func applyJSONLD(doc *goquery.Document, ts *prodex.TruthSheet) {
	product := findProductObject(doc)
	if product == nil {
		return
	}

	ts.SetString(prodex.FieldName, asString(product["name"]), prodex.SourceStructured)
	ts.SetString(prodex.FieldDescription, asString(product["description"]), prodex.SourceStructured)
	ts.SetString(prodex.FieldCategory, asString(product["category"]), prodex.SourceStructured)
	ts.SetString(prodex.FieldBrand, brandName(product["brand"]), prodex.SourceStructured)
	ts.SetPrice(offerPrice(product["offers"]), prodex.SourceStructured)
	ts.SetStrings(prodex.FieldKeyFeatures, keyFeatures(product), prodex.SourceStructured)
	ts.SetStrings(prodex.FieldImageURLs, imageURLs(product), prodex.SourceStructured)
	ts.SetString(prodex.FieldVideoURL, videoURL(product["video"]), prodex.SourceStructured)
	ts.SetStrings(prodex.FieldColors, stringList(product["color"]), prodex.SourceStructured)
	ts.SetVariants(productVariants(product, ts), prodex.SourceStructured)
}

// findProductObject returns the first JSON-LD object whose @type is (or
// includes) Product, descending into top-level arrays and @graph containers.
func findProductObject(doc *goquery.Document) map[string]any {
	var product map[string]any

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return true
		}

		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return true
		}

		for _, obj := range flattenJSONLD(data) {
			if isProductType(obj["@type"]) {
				product = obj
				return false
			}
		}
		return true
	})

	return product
}

// flattenJSONLD normalizes a decoded JSON-LD payload to a flat object list,
// expanding top-level arrays and @graph containers.
func flattenJSONLD(data any) []map[string]any {
	var objs []map[string]any

	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case []any:
			for _, item := range t {
				walk(item)
			}
		case map[string]any:
			objs = append(objs, t)
			if graph, ok := t["@graph"]; ok {
				walk(graph)
			}
		}
	}
	walk(data)

	return objs
}

// isProductType reports whether a JSON-LD @type value is Product. The type
// can be a string or a list of strings.
func isProductType(v any) bool {
	switch t := v.(type) {
	case string:
		return t == "Product"
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == "Product" {
				return true
			}
		}
	}
	return false
}

// brandName extracts a brand from schema.org's two conventions: a plain
// string or a Brand object with a name.
func brandName(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		return strings.TrimSpace(asString(t["name"]))
	}
	return ""
}

// offerPrice extracts the first parseable price from offers, which may be a
// single object or an array.
func offerPrice(v any) *prodex.Price {
	for _, offer := range toList(v) {
		obj, ok := offer.(map[string]any)
		if !ok {
			continue
		}
		amount, ok := asFloat(obj["price"])
		if !ok {
			continue
		}
		price := &prodex.Price{
			Amount:   amount,
			Currency: strings.TrimSpace(asString(obj["priceCurrency"])),
		}
		if high, ok := asFloat(obj["highPrice"]); ok {
			price.CompareAt = &high
		}
		return price
	}
	return nil
}

// keyFeatures extracts feature bullets from positiveNotes, falling back to
// additionalProperty values.
func keyFeatures(product map[string]any) []string {
	var features []string
	for _, note := range toList(product["positiveNotes"]) {
		s := asString(note)
		if obj, ok := note.(map[string]any); ok {
			s = asString(obj["name"])
		}
		if s = strings.TrimSpace(s); s != "" {
			features = append(features, s)
		}
	}
	if len(features) > 0 {
		return features
	}

	for _, prop := range toList(product["additionalProperty"]) {
		obj, ok := prop.(map[string]any)
		if !ok {
			continue
		}
		s := asString(obj["value"])
		if s == "" {
			s = asString(obj["name"])
		}
		if s = strings.TrimSpace(s); s != "" {
			features = append(features, s)
		}
	}
	return features
}

// imageURLs extracts image URLs from the product's image/images field,
// accepting strings and ImageObject entries.
func imageURLs(product map[string]any) []string {
	v := product["images"]
	if v == nil {
		v = product["image"]
	}

	var urls []string
	seen := make(map[string]bool)
	for _, item := range toList(v) {
		u := urlOf(item)
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls
}

// videoURL extracts a video URL from a string, VideoObject, or array value.
func videoURL(v any) string {
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return ""
		}
		v = list[0]
	}
	if obj, ok := v.(map[string]any); ok {
		if u := asString(obj["embedUrl"]); u != "" {
			return strings.TrimSpace(u)
		}
		return strings.TrimSpace(asString(obj["contentUrl"]))
	}
	return strings.TrimSpace(asString(v))
}

// productVariants extracts variants from hasVariant. A product with a SKU
// but no variant list is treated as its own single variant.
func productVariants(product map[string]any, ts *prodex.TruthSheet) []prodex.Variant {
	var variants []prodex.Variant
	for _, item := range toList(product["hasVariant"]) {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		v := prodex.Variant{
			SKU:   strings.TrimSpace(asString(obj["sku"])),
			Color: strings.TrimSpace(asString(obj["color"])),
			Size:  strings.TrimSpace(asString(obj["size"])),
		}
		if v.Size == "" {
			v.Size = strings.TrimSpace(asString(obj["width"]))
		}
		if price, ok := asFloat(obj["price"]); ok {
			v.Price = &price
		}
		img := obj["image"]
		if img == nil {
			img = obj["image_url"]
		}
		v.ImageURL = urlOf(img)
		variants = append(variants, v)
	}
	if len(variants) > 0 {
		return variants
	}

	sku := strings.TrimSpace(asString(product["sku"]))
	if sku == "" {
		return nil
	}
	v := prodex.Variant{
		SKU:   sku,
		Color: strings.TrimSpace(asString(product["color"])),
	}
	if ts.Price != nil {
		amount := ts.Price.Amount
		v.Price = &amount
	}
	if urls := imageURLs(product); len(urls) > 0 {
		v.ImageURL = urls[0]
	}
	return []prodex.Variant{v}
}

// metaFieldOrder is the fixed mapping from metadata tag keys to canonical
// truth sheet field names, in priority order: og:* keys outrank twitter:*
// keys, which outrank bare names. Only keys listed here are consulted;
// there is no heuristic guessing beyond this table.
var metaFieldOrder = []struct {
	key   string
	field string
}{
	{"og:title", prodex.FieldName},
	{"twitter:title", prodex.FieldName},
	{"og:description", prodex.FieldDescription},
	{"twitter:description", prodex.FieldDescription},
	{"description", prodex.FieldDescription},
	{"og:video", prodex.FieldVideoURL},
	{"og:video:url", prodex.FieldVideoURL},
	{"product:brand", prodex.FieldBrand},
	{"product:category", prodex.FieldCategory},
}

// metaImageKeys are the metadata tag keys that contribute image URL
// candidates, collected in document order.
var metaImageKeys = map[string]bool{
	"og:image":            true,
	"og:image:secure_url": true,
	"twitter:image":       true,
}

// applyMetaTags extracts fields from meta tags. The first occurrence of a
// key wins; product:price:amount and product:price:currency combine into a
// price.
func applyMetaTags(doc *goquery.Document, ts *prodex.TruthSheet) {
	meta := make(map[string]string)
	var metaImages []string

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		key, ok := sel.Attr("property")
		if !ok {
			key, ok = sel.Attr("name")
		}
		if !ok {
			return
		}
		key = strings.ToLower(strings.TrimSpace(key))
		content, ok := sel.Attr("content")
		if !ok {
			return
		}
		content = strings.TrimSpace(content)
		if key == "" || content == "" {
			return
		}

		if metaImageKeys[key] {
			for _, u := range metaImages {
				if u == content {
					return
				}
			}
			metaImages = append(metaImages, content)
			return
		}
		if _, exists := meta[key]; !exists {
			meta[key] = content
		}
	})

	// The table is walked in priority order; a field set from an earlier
	// key is never overwritten by a later one.
	for _, entry := range metaFieldOrder {
		content, ok := meta[entry.key]
		if !ok {
			continue
		}
		ts.SetString(entry.field, content, prodex.SourceMetadata)
	}

	ts.SetStrings(prodex.FieldImageURLs, metaImages, prodex.SourceMetadata)

	if raw, ok := meta["product:price:amount"]; ok {
		if amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			ts.SetPrice(&prodex.Price{
				Amount:   amount,
				Currency: strings.TrimSpace(meta["product:price:currency"]),
			}, prodex.SourceMetadata)
		}
	}
}

// dataAttrOrder is the fixed mapping from data-* attribute names to
// canonical truth sheet string fields, in priority order. E-commerce sites
// commonly annotate elements with these for cart widgets and analytics.
var dataAttrOrder = []struct {
	attr  string
	field string
}{
	{"data-product-name", prodex.FieldName},
	{"data-name", prodex.FieldName},
	{"data-product-brand", prodex.FieldBrand},
	{"data-brand", prodex.FieldBrand},
}

// applyDataAttributes extracts fields from data-* attributes. These carry
// the same tier as metadata tags and are applied after them, so a meta tag
// value wins when both name the same field.
func applyDataAttributes(doc *goquery.Document, ts *prodex.TruthSheet) {
	first := func(attr string) string {
		var value string
		doc.Find("["+attr+"]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if v := strings.TrimSpace(sel.AttrOr(attr, "")); v != "" {
				value = v
				return false
			}
			return true
		})
		return value
	}

	for _, entry := range dataAttrOrder {
		if v := first(entry.attr); v != "" {
			ts.SetString(entry.field, v, prodex.SourceMetadata)
		}
	}

	var images []string
	for _, attr := range []string{"data-product-image", "data-image"} {
		u := first(attr)
		if u == "" {
			continue
		}
		if len(images) == 0 || images[0] != u {
			images = append(images, u)
		}
	}
	ts.SetStrings(prodex.FieldImageURLs, images, prodex.SourceMetadata)

	for _, attr := range []string{"data-product-price", "data-price"} {
		raw := first(attr)
		if raw == "" {
			continue
		}
		if amount, ok := asFloat(raw); ok {
			currency := first("data-price-currency")
			if currency == "" {
				currency = first("data-currency")
			}
			ts.SetPrice(&prodex.Price{Amount: amount, Currency: currency}, prodex.SourceMetadata)
		}
		break
	}

	for _, attr := range []string{"data-product-sku", "data-sku"} {
		if sku := first(attr); sku != "" {
			ts.SetVariants([]prodex.Variant{{SKU: sku}}, prodex.SourceMetadata)
			break
		}
	}
}

// stringList normalizes a string-or-list value to a slice of trimmed,
// non-empty strings.
func stringList(v any) []string {
	var out []string
	for _, item := range toList(v) {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// asString returns v as a trimmed string, or "" for non-strings.
func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// asFloat parses v as a float from either a JSON number or a numeric string.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// toList normalizes v to a slice: nil becomes empty, scalars become a
// single-element slice.
func toList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

// urlOf extracts a URL from a string or an object carrying url/contentUrl.
func urlOf(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if u := asString(t["url"]); u != "" {
			return u
		}
		return asString(t["contentUrl"])
	}
	return ""
}

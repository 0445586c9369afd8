package goquery

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/prodex"
)

// Bounds for the heuristic search through embedded state blobs. Framework
// payloads can be arbitrarily deep and wide; the product data of interest
// sits near the top.
const (
	embeddedMaxDepth = 4
	embeddedMaxItems = 10
)

// productKeys are the object keys the heuristic search descends into or
// harvests from.
var productKeys = map[string]bool{
	"colorDescription": true,
	"colorwayImages":   true,
	"color":            true,
	"colorways":        true,
	"variants":         true,
	"hasVariant":       true,
	"products":         true,
	"image":            true,
	"images":           true,
}

// harvest accumulates colors, variants, and image URLs found in embedded
// JSON state.
type harvest struct {
	colors    []string
	variants  []prodex.Variant
	imageURLs []string
}

func (h *harvest) empty() bool {
	return len(h.colors) == 0 && len(h.variants) == 0 && len(h.imageURLs) == 0
}

func (h *harvest) addColor(color string) {
	color = strings.TrimSpace(color)
	if color == "" {
		return
	}
	for _, c := range h.colors {
		if c == color {
			return
		}
	}
	h.colors = append(h.colors, color)
}

func (h *harvest) addImageURL(u string) {
	u = strings.TrimSpace(u)
	if u == "" {
		return
	}
	for _, existing := range h.imageURLs {
		if existing == u {
			return
		}
	}
	h.imageURLs = append(h.imageURLs, u)
}

// applyEmbeddedJSON merges product signals from application/json state blobs
// (Next.js, Nuxt and similar) into the sheet. Each blob is parsed
// independently; malformed blobs are skipped.
func applyEmbeddedJSON(doc *goquery.Document, ts *prodex.TruthSheet) {
	h := &harvest{}

	doc.Find(`script[type="application/json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}

		var data map[string]any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return
		}

		harvestEmbedded(data, h)
	})

	if h.empty() {
		return
	}

	ts.SetStrings(prodex.FieldColors, h.colors, prodex.SourceEmbedded)
	ts.SetStrings(prodex.FieldImageURLs, h.imageURLs, prodex.SourceEmbedded)
	ts.SetVariants(h.variants, prodex.SourceEmbedded)
}

// harvestEmbedded looks in the well-known framework locations first
// (props.pageProps for Next.js, data for Nuxt) and falls back to a bounded
// recursive search for product-like keys.
func harvestEmbedded(data map[string]any, h *harvest) {
	if props, ok := data["props"].(map[string]any); ok {
		pageProps := props
		if pp, ok := props["pageProps"].(map[string]any); ok {
			pageProps = pp
		}
		harvestColorways(pageProps, h)
	}

	if nuxt, ok := data["data"].(map[string]any); ok {
		inner := nuxt
		if nested, ok := nuxt["data"].(map[string]any); ok {
			inner = nested
		}
		harvestColorways(inner, h)
	}

	if h.empty() {
		searchProductKeys(data, h, 0)
	}
}

// harvestColorways extracts colors, images, and variants from colorway-style
// structures (colorwayImages, colorways, variants).
func harvestColorways(obj map[string]any, h *harvest) {
	v := obj["colorwayImages"]
	if v == nil {
		v = obj["colorways"]
	}
	if v == nil {
		v = obj["variants"]
	}
	list, ok := v.([]any)
	if !ok {
		return
	}

	for _, item := range list {
		cw, ok := item.(map[string]any)
		if !ok {
			continue
		}

		color := asString(cw["colorDescription"])
		if color == "" {
			color = asString(cw["color"])
		}
		if color == "" {
			color = asString(cw["name"])
		}

		img := asString(cw["squarishImg"])
		if img == "" {
			img = asString(cw["portraitImg"])
		}
		if img == "" {
			img = urlOf(cw["image"])
		}

		h.addColor(color)
		h.addImageURL(img)

		variant := prodex.Variant{
			SKU:      asString(cw["sku"]),
			Color:    color,
			ImageURL: img,
		}
		if variant.SKU == "" {
			variant.SKU = asString(cw["id"])
		}
		if price, ok := asFloat(cw["price"]); ok {
			variant.Price = &price
		}
		h.variants = append(h.variants, variant)
	}
}

// searchProductKeys recursively scans for product-like keys to a bounded
// depth, harvesting whatever it recognizes. Keys are visited in sorted
// order so identical input always yields identical harvest order.
func searchProductKeys(obj map[string]any, h *harvest, depth int) {
	if depth >= embeddedMaxDepth {
		return
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := obj[key]
		if productKeys[key] {
			switch key {
			case "colorwayImages", "colorways", "variants", "hasVariant", "products":
				if list, ok := val.([]any); ok && len(list) > 0 {
					if _, ok := list[0].(map[string]any); ok {
						harvestColorways(map[string]any{"colorwayImages": list}, h)
					}
				}
			case "color", "colorDescription":
				h.addColor(asString(val))
			case "image", "images":
				for _, item := range toList(val) {
					h.addImageURL(urlOf(item))
				}
			}
		}

		switch t := val.(type) {
		case map[string]any:
			searchProductKeys(t, h, depth+1)
		case []any:
			limit := len(t)
			if limit > embeddedMaxItems {
				limit = embeddedMaxItems
			}
			for _, item := range t[:limit] {
				if inner, ok := item.(map[string]any); ok {
					searchProductKeys(inner, h, depth+1)
				}
			}
		}
	}
}

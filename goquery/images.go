package goquery

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/prodex"
)

// Ensure ImageExtractor implements prodex.ImageExtractor at compile time.
var _ prodex.ImageExtractor = (*ImageExtractor)(nil)

// ImageExtractor collects candidate image URLs from product page markup:
// img tags (including lazy-load attributes and srcset), image meta tags,
// and JSON-LD image fields. Candidates carry whatever dimension hints the
// markup provides; nothing is fetched.
type ImageExtractor struct{}

// NewImageExtractor creates a new ImageExtractor.
func NewImageExtractor() *ImageExtractor {
	return &ImageExtractor{}
}

// lazySrcAttrs are the img attributes checked for a usable URL, in order.
var lazySrcAttrs = []string{"src", "data-src", "data-lazy-src", "data-original"}

// ExtractImages returns the document's image candidates in order of first
// appearance. Relative URLs resolve against the <base> href when present;
// candidates without an http(s) URL or with an empty path are skipped.
func (e *ImageExtractor) ExtractImages(html string) []prodex.ImageCandidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	c := newCollector(baseHref(doc))

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		alt := strings.TrimSpace(sel.AttrOr("alt", ""))
		width := intAttr(sel, "width")
		height := intAttr(sel, "height")

		for _, attr := range lazySrcAttrs {
			if raw, ok := sel.Attr(attr); ok {
				c.add(raw, alt, width, height)
			}
		}
		for _, attr := range []string{"srcset", "data-srcset"} {
			if raw, ok := sel.Attr(attr); ok {
				best, bestWidth := bestFromSrcset(raw)
				if best != "" {
					c.add(best, alt, bestWidth, 0)
				}
			}
		}
	})

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		key, ok := sel.Attr("property")
		if !ok {
			key, ok = sel.Attr("name")
		}
		if !ok {
			return
		}
		key = strings.ToLower(strings.TrimSpace(key))
		switch key {
		case "og:image", "og:image:secure_url", "twitter:image":
			if content, ok := sel.Attr("content"); ok {
				c.add(content, key, 0, 0)
			}
		}
	})

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}
		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return
		}
		for _, obj := range flattenJSONLD(data) {
			for _, key := range []string{"image", "images"} {
				for _, item := range toList(obj[key]) {
					if u := urlOf(item); u != "" {
						c.add(u, "structured data image", 0, 0)
					}
				}
			}
		}
	})

	return c.candidates
}

// collector accumulates candidates, deduplicating by URL while preserving
// first-occurrence order and merging hints and dimension information.
type collector struct {
	base       *url.URL
	seen       map[string]int
	candidates []prodex.ImageCandidate
}

func newCollector(base *url.URL) *collector {
	return &collector{base: base, seen: make(map[string]int)}
}

// add normalizes and registers a candidate URL.
func (c *collector) add(raw, hint string, width, height int) {
	normalized := normalizeImageURL(raw, c.base)
	if normalized == "" {
		return
	}

	if width == 0 || height == 0 {
		if w, h, ok := dimsFromPath(normalized); ok {
			width, height = w, h
		}
	}

	if idx, ok := c.seen[normalized]; ok {
		existing := &c.candidates[idx]
		if existing.Width*existing.Height < width*height {
			existing.Width, existing.Height = width, height
		}
		mergeHint(existing, hint)
		return
	}

	candidate := prodex.ImageCandidate{
		URL:      normalized,
		Width:    width,
		Height:   height,
		Position: len(c.candidates),
		Hint:     strings.TrimSpace(hint),
	}
	c.seen[normalized] = len(c.candidates)
	c.candidates = append(c.candidates, candidate)
}

// mergeHint appends a hint not already recorded for the candidate.
func mergeHint(candidate *prodex.ImageCandidate, hint string) {
	hint = strings.TrimSpace(hint)
	if hint == "" || strings.Contains(candidate.Hint, hint) {
		return
	}
	if candidate.Hint == "" {
		candidate.Hint = hint
		return
	}
	candidate.Hint += "; " + hint
}

// baseHref returns the document's <base> href, if any.
func baseHref(doc *goquery.Document) *url.URL {
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok {
		return nil
	}
	base, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil
	}
	return base
}

// normalizeImageURL resolves a raw URL to an absolute http(s) URL with a
// non-empty path, or "" if it cannot be used as an image candidate.
func normalizeImageURL(raw string, base *url.URL) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if base != nil && !u.IsAbs() {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if strings.Trim(u.Path, "/") == "" {
		return ""
	}
	return u.String()
}

// srcsetDigitsRE extracts the number from a srcset descriptor like "1200w"
// or "2x".
var srcsetDigitsRE = regexp.MustCompile(`\d+`)

// bestFromSrcset picks the srcset entry with the highest descriptor value.
// Returns the URL and, when the descriptor is a width, the implied width.
func bestFromSrcset(srcset string) (string, int) {
	var bestURL string
	var bestScore int
	var bestWidth int

	for _, entry := range strings.Split(srcset, ",") {
		parts := strings.Fields(strings.TrimSpace(entry))
		if len(parts) == 0 || parts[0] == "" {
			continue
		}

		score := 0
		width := 0
		if len(parts) > 1 {
			descriptor := strings.ToLower(parts[1])
			if m := srcsetDigitsRE.FindString(descriptor); m != "" {
				score, _ = strconv.Atoi(m)
				if strings.HasSuffix(descriptor, "w") {
					width = score
				}
			}
		}

		if bestURL == "" || score > bestScore {
			bestURL = parts[0]
			bestScore = score
			bestWidth = width
		}
	}

	return bestURL, bestWidth
}

// pathDimsRE matches an NxN dimension token in a URL path, e.g.
// shoe-800x800.jpg.
var pathDimsRE = regexp.MustCompile(`(\d{2,4})x(\d{2,4})`)

// dimsFromPath infers dimensions from an NxN token in the URL path.
func dimsFromPath(rawURL string) (int, int, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, 0, false
	}
	m := pathDimsRE.FindStringSubmatch(u.Path)
	if m == nil {
		return 0, 0, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	if w == 0 || h == 0 {
		return 0, 0, false
	}
	return w, h, true
}

// intAttr parses an integer attribute, returning 0 when absent or invalid.
func intAttr(sel *goquery.Selection, name string) int {
	raw, ok := sel.Attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

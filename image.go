package prodex

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// ImageCandidate is an image URL found in a document, with whatever
// dimension and context hints were inferable from the markup. Width and
// Height are zero when unknown; no pixel data is ever fetched.
type ImageCandidate struct {
	// URL is the absolute image URL.
	URL string

	// Width and Height are inferred from markup attributes, srcset
	// descriptors, or dimension tokens in the URL path. Zero means unknown.
	Width  int
	Height int

	// Position is the candidate's order of first appearance in the document.
	Position int

	// Hint is contextual text (alt text, meta property, structured-data
	// origin) attached to the URL.
	Hint string
}

// Ext returns the lowercased file extension of the URL path, without the
// dot, or "" if none.
func (c ImageCandidate) Ext() string {
	u, err := url.Parse(c.URL)
	if err != nil {
		return ""
	}
	path := strings.ToLower(u.Path)
	i := strings.LastIndex(path, ".")
	if i < 0 || strings.Contains(path[i+1:], "/") {
		return ""
	}
	return path[i+1:]
}

// Area returns the inferred pixel area, or 0 when dimensions are unknown.
func (c ImageCandidate) Area() int {
	return c.Width * c.Height
}

// ImageExtractor collects candidate image URLs from raw HTML in document
// order. Relative URLs are resolved against the document's <base> href when
// present.
type ImageExtractor interface {
	ExtractImages(html string) []ImageCandidate
}

// ImageFilterConfig holds the quality thresholds for product-image
// filtering. The defaults are policy, not hard requirements; callers may
// deviate.
type ImageFilterConfig struct {
	// MinSide is the minimum width and height for candidates with known
	// dimensions.
	MinSide int

	// AspectLow and AspectHigh bound the plausible product-photo aspect
	// ratio (width/height), rejecting banners and collages.
	AspectLow  float64
	AspectHigh float64

	// AllowedExts lists acceptable file extensions.
	AllowedExts []string

	// BlockedPathSubstrings rejects URLs whose path contains any entry
	// (case-insensitive). Catches sign-up prompts, banners, and logos.
	BlockedPathSubstrings []string
}

// DefaultImageFilterConfig returns the standard product-image thresholds:
// both sides at least 500px, near-square aspect, common photo formats.
func DefaultImageFilterConfig() ImageFilterConfig {
	return ImageFilterConfig{
		MinSide:     500,
		AspectLow:   0.8,
		AspectHigh:  1.25,
		AllowedExts: []string{"jpeg", "jpg", "png", "webp"},
		BlockedPathSubstrings: []string{
			"email_sign_up", "emailprompt", "sign_up",
			"banner", "promo", "logo", "sprite", "icon",
		},
	}
}

// allowsExt reports whether the extension passes the config. Extensionless
// URLs are allowed; many CDNs serve images from bare paths.
func (cfg ImageFilterConfig) allowsExt(ext string) bool {
	if ext == "" {
		return true
	}
	for _, allowed := range cfg.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// blocksPath reports whether the URL path contains a blocked substring.
func (cfg ImageFilterConfig) blocksPath(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	path := strings.ToLower(u.Path)
	for _, sub := range cfg.BlockedPathSubstrings {
		if strings.Contains(path, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// FilterImageCandidates drops candidates that fail the quality checks:
// disallowed extensions, blocked path substrings, and known dimensions
// below the size threshold or outside the aspect range. Candidates with
// unknown dimensions pass the dimension checks and are deprioritized later
// by ranking instead.
func FilterImageCandidates(candidates []ImageCandidate, cfg ImageFilterConfig) []ImageCandidate {
	var kept []ImageCandidate
	for _, c := range candidates {
		if !cfg.allowsExt(c.Ext()) {
			continue
		}
		if cfg.blocksPath(c.URL) {
			continue
		}
		if c.Width > 0 && c.Height > 0 {
			if c.Width < cfg.MinSide || c.Height < cfg.MinSide {
				continue
			}
			aspect := float64(c.Width) / float64(c.Height)
			if aspect < cfg.AspectLow || aspect > cfg.AspectHigh {
				continue
			}
		}
		kept = append(kept, c)
	}
	return kept
}

// resizeSuffixRE matches CDN resolution markers embedded in file names,
// e.g. shoe-800x800.jpg, shoe_thumb.jpg, shoe-large.png.
var resizeSuffixRE = regexp.MustCompile(`(?i)[-_](\d+x\d+|thumb|small|medium|max|large|original)`)

// ImageIdentity normalizes a URL to its content identity: the query string
// (CDN resize parameters) and resolution suffixes are stripped so that
// variants of the same asset compare equal.
func ImageIdentity(rawURL string) string {
	base := rawURL
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	return resizeSuffixRE.ReplaceAllString(base, "")
}

// DedupeImageCandidates collapses candidates sharing a content identity,
// keeping the representative with the largest known dimensions. Ties fall
// back to the longest URL (more likely to carry high-resolution markers)
// and then to first occurrence. Output preserves first-occurrence order,
// and the operation is idempotent.
func DedupeImageCandidates(candidates []ImageCandidate) []ImageCandidate {
	seen := make(map[string]int)
	var kept []ImageCandidate
	for _, c := range candidates {
		identity := ImageIdentity(c.URL)
		idx, ok := seen[identity]
		if !ok {
			seen[identity] = len(kept)
			kept = append(kept, c)
			continue
		}
		if betterRepresentative(c, kept[idx]) {
			// Keep the earlier position so document order survives dedup.
			c.Position = kept[idx].Position
			kept[idx] = c
		}
	}
	return kept
}

// betterRepresentative reports whether a should replace b as the
// representative of a duplicate group. Larger known dimensions win; among
// equals a URL free of resize markers beats one carrying them, and a longer
// URL (more likely to name a high-resolution rendition) beats a shorter one.
func betterRepresentative(a, b ImageCandidate) bool {
	if a.Area() != b.Area() {
		return a.Area() > b.Area()
	}
	aClean := a.URL == ImageIdentity(a.URL)
	bClean := b.URL == ImageIdentity(b.URL)
	if aClean != bClean {
		return aClean
	}
	return len(a.URL) > len(b.URL)
}

// productPathRE matches URL paths that follow common e-commerce asset
// conventions.
var productPathRE = regexp.MustCompile(`(?i)/(products?|items?|images?|photos?|media|assets)/`)

// scoreCandidate computes the composite ranking score: larger known
// dimensions dominate, e-commerce path patterns break near-ties, document
// order breaks the rest (via stable sort).
func scoreCandidate(c ImageCandidate) int {
	score := c.Area()
	if productPathRE.MatchString(c.URL) {
		score += 250_000
	}
	return score
}

// RankImageCandidates orders candidates by descending composite score.
// Candidates with unknown dimensions score zero area and therefore sort
// after known-good ones; original document order is the tie-break.
func RankImageCandidates(candidates []ImageCandidate) []ImageCandidate {
	ranked := make([]ImageCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := scoreCandidate(ranked[i]), scoreCandidate(ranked[j])
		if si != sj {
			return si > sj
		}
		return ranked[i].Position < ranked[j].Position
	})
	return ranked
}

// VerifyImageCandidates runs the full candidate pipeline: quality filter,
// deduplication, ranking. The result is the closed set of verified images
// eligible for the final record.
func VerifyImageCandidates(candidates []ImageCandidate, cfg ImageFilterConfig) []ImageCandidate {
	return RankImageCandidates(DedupeImageCandidates(FilterImageCandidates(candidates, cfg)))
}

// CandidateURLs returns the URLs of the given candidates in order.
func CandidateURLs(candidates []ImageCandidate) []string {
	urls := make([]string, len(candidates))
	for i, c := range candidates {
		urls[i] = c.URL
	}
	return urls
}

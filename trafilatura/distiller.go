// Package trafilatura distills product pages to their main readable
// content using go-trafilatura's reader-mode heuristics.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/prodex"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Distiller implements prodex.Distiller at compile time.
var _ prodex.Distiller = (*Distiller)(nil)

// Distiller extracts a page's narrative content and renders it as Markdown.
// Navigation, ads, and boilerplate are discarded by trafilatura's content
// heuristics.
type Distiller struct {
	conv prodex.Converter
}

// NewDistiller creates a new Distiller that renders extracted content
// through the given converter.
func NewDistiller(conv prodex.Converter) *Distiller {
	return &Distiller{conv: conv}
}

// Distill returns the main content of the page as Markdown. Pages with no
// extractable content (a pure JS shell, say) yield an empty string rather
// than an error.
func (d *Distiller) Distill(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", nil
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		Focus:          trafilatura.FavorRecall,
		IncludeImages:  true,
		IncludeLinks:   true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil || result == nil || result.ContentNode == nil {
		// No main content is a degraded outcome, not a failure.
		return "", nil
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(contentHTML) == "" {
		return "", nil
	}

	markdown, err := d.conv.Convert(contentHTML)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(markdown), nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

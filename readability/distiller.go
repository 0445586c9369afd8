// Package readability distills product pages using go-readability's
// arc90-style heuristics. It serves as a fallback when trafilatura finds
// no main content.
package readability

import (
	"strings"

	"github.com/fwojciec/prodex"
	readability "github.com/go-shiori/go-readability"
)

// Ensure Distiller implements prodex.Distiller at compile time.
var _ prodex.Distiller = (*Distiller)(nil)

// Distiller extracts a page's main content and renders it as Markdown.
type Distiller struct {
	conv prodex.Converter
}

// NewDistiller creates a new Distiller that renders extracted content
// through the given converter.
func NewDistiller(conv prodex.Converter) *Distiller {
	return &Distiller{conv: conv}
}

// Distill returns the main content of the page as Markdown, or an empty
// string when the page has none.
func (d *Distiller) Distill(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", nil
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return "", nil
	}
	if strings.TrimSpace(article.Content) == "" {
		return "", nil
	}

	markdown, err := d.conv.Convert(article.Content)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(markdown), nil
}

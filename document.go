package prodex

import "context"

// RawDocument is a saved product page awaiting extraction. It is immutable
// once loaded and exists only for the duration of one pipeline run.
type RawDocument struct {
	// Name identifies the document within a run (input filename stem).
	Name string

	// Path is the source file the HTML was loaded from.
	Path string

	// HTML is the raw page markup.
	HTML string
}

// Validate returns an error if the document cannot be processed.
func (d *RawDocument) Validate() error {
	if d.Name == "" {
		return Errorf(EINVALID, "document name required")
	}
	if d.HTML == "" {
		return Errorf(EINVALID, "document %q has no content", d.Name)
	}
	return nil
}

// DocumentLoader loads raw documents from an input source.
type DocumentLoader interface {
	// LoadDocuments returns all documents in the source, ordered by name.
	// A missing or empty source is a run-level error.
	LoadDocuments(ctx context.Context, dir string) ([]*RawDocument, error)
}

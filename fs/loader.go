// Package fs provides file-based document loading and collection output.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/prodex"
)

// Ensure Loader implements prodex.DocumentLoader at compile time.
var _ prodex.DocumentLoader = (*Loader)(nil)

// Loader reads raw product pages from a directory of HTML files.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDocuments reads every .html file in dir, sorted by file name so a
// given input directory always yields the same document order. The file
// name without extension becomes the document name. A missing or
// unreadable directory is a run-level error.
func (l *Loader) LoadDocuments(ctx context.Context, dir string) ([]*prodex.RawDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, prodex.Errorf(prodex.ENOTFOUND, "input directory %q not found", dir)
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".html") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	docs := make([]*prodex.RawDocument, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, name)
		html, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		docs = append(docs, &prodex.RawDocument{
			Name: strings.TrimSuffix(name, filepath.Ext(name)),
			Path: path,
			HTML: string(html),
		})
	}

	return docs, nil
}

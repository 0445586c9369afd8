package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/prodex"
)

// Ensure Writer implements prodex.CollectionWriter at compile time.
var _ prodex.CollectionWriter = (*Writer)(nil)

// Writer persists a product collection as a JSON file with atomic update
// semantics. The collection is written to a temporary file next to the
// target and moved into place with a rename, so readers never observe a
// partially written artifact.
type Writer struct {
	path string
}

// NewWriter creates a new Writer targeting the given output path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// WriteCollection replaces the output file with the given collection,
// encoded as a JSON array of products in collection order.
func (w *Writer) WriteCollection(ctx context.Context, collection *prodex.Collection) error {
	if collection == nil {
		return prodex.Errorf(prodex.EINVALID, "collection required")
	}

	products := collection.Products
	if products == nil {
		products = []*prodex.Product{}
	}

	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return nil
}

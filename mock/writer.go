package mock

import (
	"context"

	"github.com/fwojciec/prodex"
)

var _ prodex.CollectionWriter = (*CollectionWriter)(nil)

// CollectionWriter is a mock implementation of prodex.CollectionWriter.
type CollectionWriter struct {
	WriteCollectionFn func(ctx context.Context, collection *prodex.Collection) error
}

func (w *CollectionWriter) WriteCollection(ctx context.Context, collection *prodex.Collection) error {
	return w.WriteCollectionFn(ctx, collection)
}

var _ prodex.DocumentLoader = (*DocumentLoader)(nil)

// DocumentLoader is a mock implementation of prodex.DocumentLoader.
type DocumentLoader struct {
	LoadDocumentsFn func(ctx context.Context, dir string) ([]*prodex.RawDocument, error)
}

func (l *DocumentLoader) LoadDocuments(ctx context.Context, dir string) ([]*prodex.RawDocument, error) {
	return l.LoadDocumentsFn(ctx, dir)
}

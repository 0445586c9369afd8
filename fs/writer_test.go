package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/prodex"
	"github.com/fwojciec/prodex/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectionOf(t *testing.T, names ...string) *prodex.Collection {
	t.Helper()
	collection := prodex.NewCollection()
	for i, name := range names {
		p := &prodex.Product{ID: names[i], Name: name, Source: name + ".html"}
		require.NoError(t, p.Validate())
		require.NoError(t, collection.Add(p))
	}
	return collection
}

func TestWriter_WriteCollection(t *testing.T) {
	t.Parallel()

	t.Run("writes products as a JSON array in order", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "products.json")
		writer := fs.NewWriter(path)

		err := writer.WriteCollection(context.Background(), collectionOf(t, "boots", "anorak"))
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var products []*prodex.Product
		require.NoError(t, json.Unmarshal(data, &products))
		require.Len(t, products, 2)
		assert.Equal(t, "boots", products[0].Name)
		assert.Equal(t, "anorak", products[1].Name)
	})

	t.Run("replaces a previous artifact wholesale", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "products.json")
		writer := fs.NewWriter(path)

		require.NoError(t, writer.WriteCollection(context.Background(), collectionOf(t, "old-a", "old-b", "old-c")))
		require.NoError(t, writer.WriteCollection(context.Background(), collectionOf(t, "new")))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var products []*prodex.Product
		require.NoError(t, json.Unmarshal(data, &products))
		require.Len(t, products, 1)
		assert.Equal(t, "new", products[0].Name)
	})

	t.Run("empty collection writes an empty array", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "products.json")
		writer := fs.NewWriter(path)

		require.NoError(t, writer.WriteCollection(context.Background(), prodex.NewCollection()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var products []*prodex.Product
		require.NoError(t, json.Unmarshal(data, &products))
		assert.Empty(t, products)
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "nested", "products.json")
		writer := fs.NewWriter(path)

		require.NoError(t, writer.WriteCollection(context.Background(), collectionOf(t, "boots")))

		_, err := os.Stat(path)
		require.NoError(t, err)
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "products.json")
		writer := fs.NewWriter(path)

		require.NoError(t, writer.WriteCollection(context.Background(), collectionOf(t, "boots")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "products.json", entries[0].Name())
	})

	t.Run("nil collection is rejected", func(t *testing.T) {
		t.Parallel()

		writer := fs.NewWriter(filepath.Join(t.TempDir(), "products.json"))
		err := writer.WriteCollection(context.Background(), nil)
		require.Error(t, err)
		assert.Equal(t, prodex.EINVALID, prodex.ErrorCode(err))
	})
}

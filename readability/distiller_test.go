package readability_test

import (
	"testing"

	"github.com/fwojciec/prodex"
	"github.com/fwojciec/prodex/htmltomarkdown"
	"github.com/fwojciec/prodex/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Distiller implements prodex.Distiller at compile time.
var _ prodex.Distiller = (*readability.Distiller)(nil)

func TestDistiller_Distill(t *testing.T) {
	t.Parallel()

	t.Run("extracts main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Leather Boot | Example Shop</title></head>
<body>
<nav>Home | Shoes | Boots</nav>
<article>
<h1>Leather Boot</h1>
<p>Full-grain leather upper with a cushioned midsole, built for years of wear.
The stitched welt construction allows the sole to be replaced rather than
discarding the boot.</p>
</article>
<footer>Newsletter signup</footer>
</body>
</html>`

		d := readability.NewDistiller(htmltomarkdown.NewConverter())
		content, err := d.Distill(html)

		require.NoError(t, err)
		assert.Contains(t, content, "Full-grain leather upper")
	})

	t.Run("degrades to empty rather than failing", func(t *testing.T) {
		t.Parallel()

		d := readability.NewDistiller(htmltomarkdown.NewConverter())
		content, err := d.Distill("<html><body></body></html>")

		require.NoError(t, err)
		assert.Empty(t, content)
	})
}

package prodex_test

import (
	"testing"

	"github.com/fwojciec/prodex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterImageCandidates(t *testing.T) {
	t.Parallel()

	cfg := prodex.DefaultImageFilterConfig()

	t.Run("rejects below minimum side", func(t *testing.T) {
		t.Parallel()

		candidates := []prodex.ImageCandidate{
			{URL: "https://cdn.example.com/tiny.jpg", Width: 40, Height: 40},
			{URL: "https://cdn.example.com/big.jpg", Width: 800, Height: 800},
		}

		kept := prodex.FilterImageCandidates(candidates, cfg)

		require.Len(t, kept, 1)
		assert.Equal(t, "https://cdn.example.com/big.jpg", kept[0].URL)
	})

	t.Run("rejects banner aspect ratios", func(t *testing.T) {
		t.Parallel()

		candidates := []prodex.ImageCandidate{
			{URL: "https://cdn.example.com/wide.jpg", Width: 1600, Height: 500},
			{URL: "https://cdn.example.com/square.jpg", Width: 900, Height: 900},
		}

		kept := prodex.FilterImageCandidates(candidates, cfg)

		require.Len(t, kept, 1)
		assert.Equal(t, "https://cdn.example.com/square.jpg", kept[0].URL)
	})

	t.Run("rejects disallowed extensions", func(t *testing.T) {
		t.Parallel()

		candidates := []prodex.ImageCandidate{
			{URL: "https://cdn.example.com/pixel.gif", Width: 800, Height: 800},
			{URL: "https://cdn.example.com/icon.svg", Width: 800, Height: 800},
			{URL: "https://cdn.example.com/photo.webp", Width: 800, Height: 800},
		}

		kept := prodex.FilterImageCandidates(candidates, cfg)

		require.Len(t, kept, 1)
		assert.Equal(t, "https://cdn.example.com/photo.webp", kept[0].URL)
	})

	t.Run("rejects blocked path substrings", func(t *testing.T) {
		t.Parallel()

		candidates := []prodex.ImageCandidate{
			{URL: "https://cdn.example.com/email_sign_up.jpg", Width: 800, Height: 800},
			{URL: "https://cdn.example.com/brand-logo.png", Width: 800, Height: 800},
			{URL: "https://cdn.example.com/products/shoe.jpg", Width: 800, Height: 800},
		}

		kept := prodex.FilterImageCandidates(candidates, cfg)

		require.Len(t, kept, 1)
		assert.Equal(t, "https://cdn.example.com/products/shoe.jpg", kept[0].URL)
	})

	t.Run("unknown dimensions are not auto-rejected", func(t *testing.T) {
		t.Parallel()

		candidates := []prodex.ImageCandidate{
			{URL: "https://cdn.example.com/mystery.jpg"},
		}

		kept := prodex.FilterImageCandidates(candidates, cfg)

		assert.Len(t, kept, 1)
	})
}

func TestImageIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
	}{
		{
			name: "query string stripped",
			a:    "https://cdn.example.com/shoe.jpg",
			b:    "https://cdn.example.com/shoe.jpg?resize=300",
		},
		{
			name: "resolution suffix stripped",
			a:    "https://cdn.example.com/shoe-100x100.jpg",
			b:    "https://cdn.example.com/shoe.jpg",
		},
		{
			name: "named size suffix stripped",
			a:    "https://cdn.example.com/shoe_thumb.jpg",
			b:    "https://cdn.example.com/shoe-large.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, prodex.ImageIdentity(tt.a), prodex.ImageIdentity(tt.b))
		})
	}
}

func TestDedupeImageCandidates(t *testing.T) {
	t.Parallel()

	t.Run("collapses CDN resize variants keeping largest", func(t *testing.T) {
		t.Parallel()

		candidates := []prodex.ImageCandidate{
			{URL: "https://cdn.example.com/shoe.jpg?resize=300", Width: 300, Height: 300, Position: 0},
			{URL: "https://cdn.example.com/shoe.jpg", Width: 800, Height: 800, Position: 1},
		}

		deduped := prodex.DedupeImageCandidates(candidates)

		require.Len(t, deduped, 1)
		assert.Equal(t, "https://cdn.example.com/shoe.jpg", deduped[0].URL)
		assert.Equal(t, 800, deduped[0].Width)
	})

	t.Run("distinct assets are preserved in order", func(t *testing.T) {
		t.Parallel()

		candidates := []prodex.ImageCandidate{
			{URL: "https://cdn.example.com/front.jpg", Position: 0},
			{URL: "https://cdn.example.com/back.jpg", Position: 1},
		}

		deduped := prodex.DedupeImageCandidates(candidates)

		require.Len(t, deduped, 2)
		assert.Equal(t, "https://cdn.example.com/front.jpg", deduped[0].URL)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		candidates := []prodex.ImageCandidate{
			{URL: "https://cdn.example.com/shoe-100x100.jpg", Width: 100, Height: 100, Position: 0},
			{URL: "https://cdn.example.com/shoe.jpg", Width: 800, Height: 800, Position: 1},
			{URL: "https://cdn.example.com/other.jpg", Position: 2},
		}

		once := prodex.DedupeImageCandidates(candidates)
		twice := prodex.DedupeImageCandidates(once)

		assert.Equal(t, once, twice)
	})
}

func TestRankImageCandidates(t *testing.T) {
	t.Parallel()

	t.Run("larger images rank first", func(t *testing.T) {
		t.Parallel()

		candidates := []prodex.ImageCandidate{
			{URL: "https://cdn.example.com/small.jpg", Width: 500, Height: 500, Position: 0},
			{URL: "https://cdn.example.com/large.jpg", Width: 1200, Height: 1200, Position: 1},
		}

		ranked := prodex.RankImageCandidates(candidates)

		assert.Equal(t, "https://cdn.example.com/large.jpg", ranked[0].URL)
	})

	t.Run("unknown dimensions rank after known-good", func(t *testing.T) {
		t.Parallel()

		candidates := []prodex.ImageCandidate{
			{URL: "https://cdn.example.com/mystery.jpg", Position: 0},
			{URL: "https://cdn.example.com/known.jpg", Width: 600, Height: 600, Position: 1},
		}

		ranked := prodex.RankImageCandidates(candidates)

		assert.Equal(t, "https://cdn.example.com/known.jpg", ranked[0].URL)
	})

	t.Run("document order breaks ties", func(t *testing.T) {
		t.Parallel()

		candidates := []prodex.ImageCandidate{
			{URL: "https://cdn.example.com/b.jpg", Position: 1},
			{URL: "https://cdn.example.com/a.jpg", Position: 0},
		}

		ranked := prodex.RankImageCandidates(candidates)

		assert.Equal(t, "https://cdn.example.com/a.jpg", ranked[0].URL)
	})
}

func TestVerifyImageCandidates(t *testing.T) {
	t.Parallel()

	// An icon-sized swatch plus two resize variants of one asset. The
	// filter drops the swatch, dedup collapses the variants.
	candidates := []prodex.ImageCandidate{
		{URL: "https://cdn.example.com/swatch.jpg", Width: 40, Height: 40, Position: 0},
		{URL: "https://cdn.example.com/shoe.jpg", Width: 800, Height: 800, Position: 1},
		{URL: "https://cdn.example.com/shoe.jpg?resize=300", Width: 800, Height: 800, Position: 2},
	}

	verified := prodex.VerifyImageCandidates(candidates, prodex.DefaultImageFilterConfig())

	require.Len(t, verified, 1)
	assert.Equal(t, "https://cdn.example.com/shoe.jpg", verified[0].URL)
}

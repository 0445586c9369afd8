package mock

import (
	"context"

	"github.com/fwojciec/prodex"
)

var _ prodex.Hydrator = (*Hydrator)(nil)

// Hydrator is a mock implementation of prodex.Hydrator.
type Hydrator struct {
	HydrateFn func(ctx context.Context, input *prodex.HydrationInput) (*prodex.Product, error)
}

func (h *Hydrator) Hydrate(ctx context.Context, input *prodex.HydrationInput) (*prodex.Product, error) {
	return h.HydrateFn(ctx, input)
}

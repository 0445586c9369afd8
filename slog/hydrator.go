// Package slog provides logging decorators for prodex interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prodex"
)

// Ensure LoggingHydrator implements prodex.Hydrator.
var _ prodex.Hydrator = (*LoggingHydrator)(nil)

// LoggingHydrator wraps a Hydrator with structured logging of per-document
// outcomes and durations.
type LoggingHydrator struct {
	next   prodex.Hydrator
	logger *slog.Logger
}

// NewLoggingHydrator creates a new LoggingHydrator.
func NewLoggingHydrator(next prodex.Hydrator, logger *slog.Logger) *LoggingHydrator {
	return &LoggingHydrator{next: next, logger: logger}
}

// Hydrate delegates to the wrapped hydrator and logs the outcome.
func (h *LoggingHydrator) Hydrate(ctx context.Context, input *prodex.HydrationInput) (*prodex.Product, error) {
	begin := time.Now()

	product, err := h.next.Hydrate(ctx, input)
	if err != nil {
		h.logger.Warn("hydration failed",
			"source", input.Source,
			"code", prodex.ErrorCode(err),
			"error", prodex.ErrorMessage(err),
			"duration", time.Since(begin),
		)
		return nil, err
	}

	h.logger.Info("hydration complete",
		"source", input.Source,
		"product", product.Name,
		"images", len(product.ImageURLs),
		"duration", time.Since(begin),
	)
	return product, nil
}

package pipeline

import (
	"context"
	"time"

	"github.com/fwojciec/prodex"
)

// HydrateFunc performs a single generation attempt.
type HydrateFunc func(ctx context.Context, input *prodex.HydrationInput) (*prodex.Product, error)

// LogFunc is called before each retry sleep with the failed attempt number
// and the error that triggered the retry.
type LogFunc func(attempt int, delay time.Duration, err error)

// DefaultRetryDelays returns the standard backoff schedule.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// HydrateWithRetryDelays retries fn with the given backoff delays. Only
// transient failures are retried; a schema deviation (EINVALID) is a
// property of the response, not the transport, and returns immediately.
// When all attempts fail the last error is reported as EUNAVAILABLE.
func HydrateWithRetryDelays(ctx context.Context, input *prodex.HydrationInput, fn HydrateFunc, logFn LogFunc, delays []time.Duration) (*prodex.Product, error) {
	attempts := len(delays) + 1

	var lastErr error
	for i := 0; i < attempts; i++ {
		product, err := fn(ctx, input)
		if err == nil {
			return product, nil
		}
		lastErr = err

		if prodex.ErrorCode(err) == prodex.EINVALID {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if i == attempts-1 {
			break
		}

		if logFn != nil {
			logFn(i+1, delays[i], err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[i]):
		}
	}

	return nil, prodex.Errorf(prodex.EUNAVAILABLE, "hydration failed after %d attempts: %s", attempts, prodex.ErrorMessage(lastErr))
}

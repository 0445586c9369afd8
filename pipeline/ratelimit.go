package pipeline

import "golang.org/x/time/rate"

// NewLimiter returns a token-bucket limiter for generation requests at the
// given sustained requests per second with a burst of one.
func NewLimiter(rps float64) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(rps), 1)
}

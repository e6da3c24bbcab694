// Package ratelimit paces outbound requests with a token bucket so an eager
// user cannot exhaust a provider quota from the prompt.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limiter implements the token bucket algorithm for outbound requests.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a Limiter allowing requestsPerSecond sustained requests with
// bursts of up to burst. A non-positive rate disables limiting.
//
// Example:
//
//	limiter := ratelimit.New(1.0, 5) // 1 req/s with burst of 5
func New(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until a token is available or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

// Limit returns the configured sustained rate.
func (l *Limiter) Limit() rate.Limit {
	return l.limiter.Limit()
}

// Package ratelimit throttles check requests. A wallcheck server triggers
// real network probes on behalf of callers, so an unthrottled endpoint can
// be abused as a probe amplifier.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter wraps a token-bucket rate limiter.
type Limiter struct {
	inner *rate.Limiter
}

// New creates a Limiter with the given requests-per-second rate and burst
// capacity.
func New(rps float64, burst int) *Limiter {
	return &Limiter{inner: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Allow reports whether a request may proceed now. It never blocks; callers
// that cannot queue (HTTP handlers) reject the request when it returns false.
func (l *Limiter) Allow() bool {
	return l.inner.Allow()
}

// Wait blocks until a token is available or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.Wait(ctx)
}

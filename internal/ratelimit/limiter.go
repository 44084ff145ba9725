// Package ratelimit throttles outbound translation requests with a token bucket.
package ratelimit

import (
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a non-blocking token bucket refilled continuously at
// capacity tokens per minute. It starts full and is safe for concurrent use.
type Limiter struct {
	lim      *rate.Limiter
	capacity int
	now      func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock sets the time source. Tests use it to step time deterministically.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New returns a limiter allowing perMinute requests per minute with bursts up
// to perMinute. A non-positive perMinute disables limiting.
func New(perMinute int, opts ...Option) *Limiter {
	l := &Limiter{
		capacity: perMinute,
		now:      time.Now,
	}
	if perMinute <= 0 {
		l.lim = rate.NewLimiter(rate.Inf, 0)
	} else {
		l.lim = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire takes one token if available and reports whether it did. It never blocks.
func (l *Limiter) Acquire() bool {
	return l.lim.AllowN(l.now(), 1)
}

// Tokens returns the number of tokens currently available.
func (l *Limiter) Tokens() float64 {
	if l.capacity <= 0 {
		return 0
	}
	return l.lim.TokensAt(l.now())
}

// Capacity returns the configured requests per minute.
func (l *Limiter) Capacity() int {
	return l.capacity
}

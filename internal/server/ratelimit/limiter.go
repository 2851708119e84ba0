// Package ratelimit implements fixed-window admission control keyed by an
// arbitrary string (typically the client IP).
package ratelimit

import (
	"context"
	"time"
)

// Default limiter values.
const (
	// DefaultPermits is the number of requests admitted per window.
	DefaultPermits = 4

	// DefaultWindow is the length of one fixed window.
	DefaultWindow = 12 * time.Second
)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed bool
	// Remaining is the number of permits left in the current window.
	Remaining int
	// RetryAfter is the time until the current window closes. Zero when allowed.
	RetryAfter time.Duration
}

// Limiter admits or rejects a request for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Config configures a limiter.
type Config struct {
	// Permits per window. Defaults to DefaultPermits if zero or negative.
	Permits int
	// Window length. Defaults to DefaultWindow if zero or negative.
	Window time.Duration
}

func (c Config) withDefaults() Config {
	if c.Permits <= 0 {
		c.Permits = DefaultPermits
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	return c
}

// windowIndex returns the number of the fixed window containing t and the
// time at which that window ends.
func windowIndex(t time.Time, window time.Duration) (int64, time.Time) {
	idx := t.UnixNano() / int64(window)
	end := time.Unix(0, (idx+1)*int64(window))
	return idx, end
}

func decide(count int64, permits int, now, end time.Time) Decision {
	if count > int64(permits) {
		return Decision{Allowed: false, RetryAfter: end.Sub(now)}
	}
	return Decision{Allowed: true, Remaining: permits - int(count)}
}

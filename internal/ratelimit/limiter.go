// Package ratelimit enforces a minimum spacing between outbound provider requests.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces calls to Wait at least Interval apart.
// Each Limiter owns its own last-request time; nothing is shared between instances.
type Limiter struct {
	interval time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error

	mu   sync.Mutex
	last time.Time
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock replaces the wall clock and sleep used by the limiter. Tests use it
// to run against a fake clock.
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

// New returns a limiter enforcing the given minimum interval. A non-positive
// interval disables spacing.
func New(interval time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Interval returns the configured minimum spacing.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Wait blocks until a request may be issued and records the issue time.
// A cancelled wait does not consume a slot.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if !l.last.IsZero() && l.interval > 0 {
		if delay := l.last.Add(l.interval).Sub(l.now()); delay > 0 {
			if err := l.sleep(ctx, delay); err != nil {
				return err
			}
		}
	}

	l.last = l.now()
	return nil
}

// Last returns the time the most recent request was released.
func (l *Limiter) Last() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

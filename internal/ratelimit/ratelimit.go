// Package ratelimit spaces outbound queries so that at most one passes per interval.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates outbound queries. Acquire blocks until the caller may go
// ahead or ctx is done; cancelling only abandons the caller's own wait.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// Local is an in-process gate shared by every caller of one client.
type Local struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewLocal allows one caller through per interval. Burst is one, so callers
// that arrive together are released interval apart, in reservation order.
func NewLocal(interval time.Duration) *Local {
	return &Local{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

func (l *Local) Acquire(ctx context.Context) error {
	start := time.Now()
	if err := l.limiter.Wait(ctx); err != nil {
		return err
	}
	if waited := time.Since(start); waited > time.Millisecond {
		slog.Debug("ratelimit: waited", "duration", waited)
	}
	return nil
}

// Interval returns the minimum spacing between two releases.
func (l *Local) Interval() time.Duration { return l.interval }

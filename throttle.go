package main

import (
	"context"
	"sync"
	"time"
)

const (
	rateLimit             = 30
	cooldown              = time.Minute
	maxConcurrentRequests = 2
)

// throttle spaces requests so that at most limit start within any window,
// and caps how many run at once.
type throttle struct {
	limit  int
	window time.Duration
	ticker *time.Ticker

	mu       sync.Mutex
	attempts []time.Time

	tokens chan struct{}
}

func newThrottle(limit int, window time.Duration, concurrent int) *throttle {
	t := &throttle{
		limit:  limit,
		window: window,
		ticker: time.NewTicker(window / time.Duration(limit)),
		tokens: make(chan struct{}, concurrent),
	}
	for i := 0; i < concurrent; i++ {
		t.tokens <- struct{}{}
	}
	return t
}

// acquire takes a concurrency slot. The returned func gives it back.
func (t *throttle) acquire(ctx context.Context) (func(), error) {
	select {
	case <-t.tokens:
		return func() { t.tokens <- struct{}{} }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// wait blocks until a request may start under the rate limit.
func (t *throttle) wait(ctx context.Context) error {
	for {
		select {
		case <-t.ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
		t.mu.Lock()
		att := t.attempts
		if len(att) < t.limit || time.Since(att[0]) > t.window {
			att = append(att, time.Now())
			if len(att) > t.limit {
				att = att[1:]
			}
			t.attempts = att
			t.mu.Unlock()
			return nil
		}
		t.mu.Unlock()
	}
}

func (t *throttle) stop() { t.ticker.Stop() }

// Package ratelimit observes per-consumer request rates. It does not decide
// anything itself: the orchestrator records each initiation and feeds the
// resulting requests-in-last-hour count into the policy context, where the
// rate limit policy applies the ceiling.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Window is the observation window backing the requests-in-last-hour fact.
const Window = time.Hour

// Counter tracks request counts per consumer over a sliding window.
type Counter interface {
	// Observe records one request for the consumer at the given time and
	// returns the number of requests in the window preceding it, including
	// this one's predecessors but not itself.
	Observe(ctx context.Context, consumerID string, at time.Time) (int64, error)
}

// InMemoryCounter implements Counter with a per-consumer sliding window of
// timestamps. Single-process only; use the Redis counter when running more
// than one instance.
type InMemoryCounter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
}

func NewInMemoryCounter() *InMemoryCounter {
	return &InMemoryCounter{windows: make(map[string][]time.Time)}
}

func (c *InMemoryCounter) Observe(_ context.Context, consumerID string, at time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := at.Add(-Window)
	kept := c.windows[consumerID][:0]
	for _, ts := range c.windows[consumerID] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	count := int64(len(kept))
	c.windows[consumerID] = append(kept, at)
	return count, nil
}

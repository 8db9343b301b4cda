package adapters

import (
	"context"
	"sync"
	"time"

	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
)

// ErrRateLimitExceeded is returned when a caller has no tokens left.
var ErrRateLimitExceeded = &RateLimitError{Message: "rate limit exceeded"}

// RateLimitError marks throttling so callers can distinguish it from
// transport failures.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// TokenBucket rate-limits planner calls per key (one bucket per user).
type TokenBucket struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	capacity   int
	refillRate time.Duration // time between single-token refills
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

var _ ports.RateLimiter = (*TokenBucket)(nil)

// NewTokenBucket creates a limiter where each key starts with capacity
// tokens and regains one token per refillRate elapsed.
func NewTokenBucket(capacity int, refillRate time.Duration) *TokenBucket {
	return &TokenBucket{
		buckets:    make(map[string]*bucket),
		capacity:   capacity,
		refillRate: refillRate,
	}
}

// Acquire consumes one token for key, returning a release function that
// returns the token early. Exhausted buckets fail fast with
// ErrRateLimitExceeded rather than blocking.
func (tb *TokenBucket) Acquire(ctx context.Context, key string) (release func(), err error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, lastRefill: time.Now()}
		tb.buckets[key] = b
	}

	if refilled := int(time.Since(b.lastRefill) / tb.refillRate); refilled > 0 {
		b.tokens = min(b.tokens+refilled, tb.capacity)
		b.lastRefill = b.lastRefill.Add(time.Duration(refilled) * tb.refillRate)
	}

	if b.tokens <= 0 {
		return nil, ErrRateLimitExceeded
	}
	b.tokens--

	release = func() {
		tb.mu.Lock()
		defer tb.mu.Unlock()
		if b, ok := tb.buckets[key]; ok {
			b.tokens = min(b.tokens+1, tb.capacity)
		}
	}
	return release, nil
}

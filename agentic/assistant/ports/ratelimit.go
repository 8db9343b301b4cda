package assistantports

import "context"

// RateLimiter coordinates throughput toward the remote planner.
type RateLimiter interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

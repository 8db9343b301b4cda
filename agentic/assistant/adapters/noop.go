package adapters

import (
	"context"

	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
)

// NoopTracer discards all spans and events.
type NoopTracer struct{}

var _ ports.Tracer = (*NoopTracer)(nil)

func (NoopTracer) StartSpan(ctx context.Context, name string, attrs map[string]any) (context.Context, func(err error)) {
	return ctx, func(error) {}
}

func (NoopTracer) Event(ctx context.Context, name string, attrs map[string]any) {}

// NoopRateLimiter always grants a permit.
type NoopRateLimiter struct{}

var _ ports.RateLimiter = (*NoopRateLimiter)(nil)

func (NoopRateLimiter) Acquire(ctx context.Context, key string) (func(), error) {
	return func() {}, nil
}

package adapters

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	ports "github.com/homeguard/agentic-ai/agentic/assistant/ports"
)

type spanLoggerKey struct{}

// ZerologTracer implements the Tracer port on top of zerolog. Spans are
// structured log pairs rather than a distributed-tracing backend.
type ZerologTracer struct {
	logger zerolog.Logger
}

var _ ports.Tracer = (*ZerologTracer)(nil)

// NewZerologTracer creates a tracer writing through the given logger.
func NewZerologTracer(logger zerolog.Logger) *ZerologTracer {
	return &ZerologTracer{logger: logger}
}

// StartSpan opens a span, stashing a span-scoped logger in the context so
// Event calls inside the span carry its name.
func (t *ZerologTracer) StartSpan(ctx context.Context, name string, attrs map[string]any) (context.Context, func(err error)) {
	spanLogger := t.logger.With().Str("span", name).Logger()
	for k, v := range attrs {
		spanLogger = spanLogger.With().Interface(k, v).Logger()
	}
	ctx = context.WithValue(ctx, spanLoggerKey{}, spanLogger)

	start := time.Now()
	spanLogger.Debug().Str("event", "span_start").Msg("span started")

	finish := func(err error) {
		evt := spanLogger.Debug()
		if err != nil {
			evt = spanLogger.Error().Err(err)
		}
		evt.Str("event", "span_end").Dur("duration", time.Since(start)).Msg("span finished")
	}
	return ctx, finish
}

// Event logs a point-in-time event against the enclosing span, falling back
// to the root logger outside any span.
func (t *ZerologTracer) Event(ctx context.Context, name string, attrs map[string]any) {
	logger := t.logger
	if spanLogger, ok := ctx.Value(spanLoggerKey{}).(zerolog.Logger); ok {
		logger = spanLogger
	}

	evt := logger.Debug()
	for k, v := range attrs {
		evt = evt.Interface(k, v)
	}
	evt.Str("event", name).Msg("trace event")
}

package adapters

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

type spanLoggerKey struct{}

// ZerologTracer implements the Tracer port on top of zerolog.
type ZerologTracer struct {
	logger zerolog.Logger
}

// NewZerologTracer creates a tracer that writes spans and events through the
// given logger.
func NewZerologTracer(logger zerolog.Logger) *ZerologTracer {
	return &ZerologTracer{logger: logger}
}

// StartSpan begins a span and returns a finish function that logs its
// duration and outcome.
func (t *ZerologTracer) StartSpan(ctx context.Context, name string, attrs map[string]any) (context.Context, func(err error)) {
	spanLogger := t.logger.With().Str("span", name).Logger()
	for k, v := range attrs {
		spanLogger = spanLogger.With().Interface(k, v).Logger()
	}

	ctx = context.WithValue(ctx, spanLoggerKey{}, spanLogger)
	start := time.Now()
	spanLogger.Debug().Str("event", "span_start").Msg("starting span")

	finish := func(err error) {
		event := spanLogger.Debug()
		if err != nil {
			event = spanLogger.Error().Err(err)
		}
		event.Str("event", "span_end").Dur("duration", time.Since(start)).Msg("ending span")
	}

	return ctx, finish
}

// Event logs a point-in-time event within the enclosing span, if any.
func (t *ZerologTracer) Event(ctx context.Context, name string, attrs map[string]any) {
	logger := t.logger
	if spanLogger, ok := ctx.Value(spanLoggerKey{}).(zerolog.Logger); ok {
		logger = spanLogger
	}

	event := logger.Debug()
	for k, v := range attrs {
		event = event.Interface(k, v)
	}
	event.Str("event", name).Msg("tracing event")
}

var _ ports.Tracer = (*ZerologTracer)(nil)

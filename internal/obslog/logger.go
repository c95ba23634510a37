// Package obslog provides the structured logging sink used across the
// conversion pipeline. It implements the LoggingPlugin contract
// (trace/debug/info/warn/error, non-blocking, best-effort under pressure)
// on top of zap.
package obslog

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ttrpgconv/internal/errs"
)

// Logger is the structured logging interface every component uses.
// A log call never propagates an error: a call that panics inside zap is
// recovered, dropped and counted; encode and write errors are reported by
// zap to its own error output and are not counted.
type Logger struct {
	base      *zap.SugaredLogger
	component string
	traceID   string
	dropped   *atomic.Int64
}

// New creates a root Logger for a given component name.
func New(component string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	base, err := cfg.Build()
	if err != nil {
		// Fall back to a no-op core rather than panicking: logging must
		// never be able to abort a conversion.
		base = zap.NewNop()
	}
	return &Logger{
		base:      base.Sugar().With("component", component),
		component: component,
		dropped:   new(atomic.Int64),
	}
}

// WithTraceID returns a child Logger correlated to a run/trace ID.
func (l *Logger) WithTraceID(traceID string) *Logger {
	return &Logger{
		base:      l.base.With("trace_id", traceID),
		component: l.component,
		traceID:   traceID,
		dropped:   l.dropped,
	}
}

// WithComponent returns a child Logger scoped to a sub-component.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		base:      l.base.With("component", name),
		component: name,
		traceID:   l.traceID,
		dropped:   l.dropped,
	}
}

func (l *Logger) fields(fields map[string]any) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}

func (l *Logger) safeLog(log func(msg string, kv ...any)) func(string, map[string]any) {
	return func(message string, fields map[string]any) {
		defer func() {
			if recover() != nil {
				l.dropped.Add(1)
			}
		}()
		log(message, l.fields(fields)...)
	}
}

// Trace logs at debug level (zap has no dedicated trace level); kept as a
// distinct method so call sites match the spec's LoggingPlugin contract.
func (l *Logger) Trace(message string, fields map[string]any) {
	l.safeLog(l.base.Debugw)(message, fields)
}

func (l *Logger) Debug(message string, fields map[string]any) {
	l.safeLog(l.base.Debugw)(message, fields)
}

func (l *Logger) Info(message string, fields map[string]any) {
	l.safeLog(l.base.Infow)(message, fields)
}

func (l *Logger) Warn(message string, fields map[string]any) {
	l.safeLog(l.base.Warnw)(message, fields)
}

func (l *Logger) Error(message string, fields map[string]any) {
	l.safeLog(l.base.Errorw)(message, fields)
}

// LogError logs a *errs.Error with its full context, or any other error
// with best-effort type information.
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}
	if e, ok := err.(*errs.Error); ok {
		fields := map[string]any{
			"error_id":   e.ID,
			"error_kind": e.Kind,
			"op":         e.Op,
			"context":    e.Context,
		}
		l.Error(e.Message, fields)
		return
	}
	l.Error(err.Error(), map[string]any{"error_type": "unknown"})
}

// Dropped returns the number of log calls dropped because they panicked
// inside zap, so a caller can surface a best-effort counter per spec §4.1.
func (l *Logger) Dropped() int64 { return l.dropped.Load() }

// Sync flushes any buffered log entries. Safe to call multiple times.
func (l *Logger) Sync() error { return l.base.Sync() }

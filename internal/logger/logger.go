// Package logger provides a structured, module-aware logging system built on log/slog.
//
// Components receive a module-scoped Logger from the CentralLogger:
//
//	central, err := logger.NewCentralLogger(&cfg)
//	if err != nil {
//	    return err
//	}
//	defer central.Close()
//	logger.SetGlobal(central)
//
//	log := central.Module("classifier")
//	log.Info("model loaded", logger.String("path", path), logger.Int("labels", 30))
//
// Tests can write into a buffer with NewSlogLogger:
//
//	buf := &bytes.Buffer{}
//	log := logger.NewSlogLogger(buf, logger.LogLevelDebug, time.UTC)
package logger

import (
	"context"
	"time"
)

// LogLevel represents log severity levels
type LogLevel string

const (
	LogLevelTrace LogLevel = "trace"
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

const (
	moduleKey  = "module"
	errorKey   = "error"
	traceIDKey = "trace_id"
)

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// Logger is the centralized logging interface for dependency injection
type Logger interface {
	// Module returns a logger scoped to a sub-module
	Module(name string) Logger

	Trace(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	With(fields ...Field) Logger
	WithContext(ctx context.Context) Logger

	// Log with explicit level
	Log(level LogLevel, msg string, fields ...Field)

	// Flush ensures all buffered logs are written
	Flush() error
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates a 64-bit integer field.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Uint64 creates an unsigned 64-bit integer field.
func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

// Float32 creates a 32-bit float field, typically a confidence score.
func Float32(key string, value float32) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a 64-bit float field.
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Error creates an error field. The key is always "error".
func Error(err error) Field {
	if err == nil {
		return Field{Key: errorKey, Value: nil}
	}
	return Field{Key: errorKey, Value: err.Error()}
}

// Duration creates a duration field, rendered as a human readable string.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Time creates a time field.
func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value}
}

// Any creates a field with any value. Prefer the typed constructors.
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// loggerContextKey is a typed key for context values.
type loggerContextKey struct{ name string }

// TraceIDKey is the context key for trace IDs. Use WithTraceID() to set values.
var TraceIDKey = loggerContextKey{"trace_id"}

// WithTraceID returns a new context with the trace ID set
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

func getTraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

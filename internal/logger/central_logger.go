package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	_ "time/tzdata"
)

// traceLevelValue is slog.Level for TRACE level (below Debug which is -4)
const traceLevelValue = slog.Level(-8)

var (
	globalLogger   *CentralLogger
	globalLoggerMu sync.Mutex
)

// SetGlobal sets the global CentralLogger instance.
func SetGlobal(cl *CentralLogger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = cl
}

// Global returns the global CentralLogger instance, or a console-only fallback
// if none has been configured yet.
func Global() *CentralLogger {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()

	if globalLogger != nil {
		return globalLogger
	}

	cfg := &LoggingConfig{Timezone: "Local"}
	applyConfigDefaults(cfg)
	globalLogger = &CentralLogger{
		config:       cfg,
		timezone:     time.Local,
		moduleLevels: make(map[string]slog.Level),
		baseHandler:  newTextHandler(os.Stdout, slog.LevelInfo, time.Local),
	}
	return globalLogger
}

// CentralLogger manages module-aware logging
type CentralLogger struct {
	config       *LoggingConfig
	timezone     *time.Location
	baseHandler  slog.Handler
	file         *os.File
	fileMu       sync.Mutex
	moduleLevels map[string]slog.Level
	mu           sync.RWMutex
}

// NewCentralLogger creates a centralized logger writing text to the console and,
// when enabled, JSON to a log file.
func NewCentralLogger(cfg *LoggingConfig) (*CentralLogger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logging config cannot be nil")
	}
	applyConfigDefaults(cfg)

	tz, err := loadTimezone(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	cl := &CentralLogger{
		config:       cfg,
		timezone:     tz,
		moduleLevels: make(map[string]slog.Level),
	}
	for module, levelStr := range cfg.ModuleLevels {
		cl.moduleLevels[module] = parseLogLevel(levelStr)
	}

	var handlers []slog.Handler
	if cfg.Console.Enabled {
		handlers = append(handlers, newTextHandler(os.Stdout, parseLogLevel(cfg.Console.Level), tz))
	}
	if cfg.FileOutput.Enabled {
		if err := ensureFileDirectory(cfg.FileOutput.Path); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.FileOutput.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FileOutput.Path, err)
		}
		cl.file = f
		handlers = append(handlers, slog.NewJSONHandler(&lockedWriter{w: f, mu: &cl.fileMu}, &slog.HandlerOptions{
			Level: parseLogLevel(cfg.FileOutput.Level),
		}))
	}
	if len(handlers) == 0 {
		handlers = append(handlers, newTextHandler(os.Stdout, parseLogLevel(cfg.DefaultLevel), tz))
	}

	if len(handlers) == 1 {
		cl.baseHandler = handlers[0]
	} else {
		cl.baseHandler = newMultiWriterHandler(handlers...)
	}

	return cl, nil
}

func loadTimezone(name string) (*time.Location, error) {
	switch name {
	case "", "Local":
		return time.Local, nil
	default:
		tz, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %s: %w", name, err)
		}
		return tz, nil
	}
}

// Module returns a logger scoped to a specific module
func (cl *CentralLogger) Module(name string) Logger {
	if cl == nil {
		return nil
	}

	cl.mu.RLock()
	defer cl.mu.RUnlock()

	level, ok := cl.moduleLevels[name]
	if !ok {
		level = parseLogLevel(cl.config.DefaultLevel)
	}

	return &moduleLogger{
		module: name,
		logger: slog.New(cl.baseHandler),
		level:  level,
	}
}

// Close flushes and closes the log file, if any.
func (cl *CentralLogger) Close() error {
	if cl == nil {
		return nil
	}
	cl.fileMu.Lock()
	defer cl.fileMu.Unlock()

	if cl.file == nil {
		return nil
	}
	err := errors.Join(cl.file.Sync(), cl.file.Close())
	cl.file = nil
	return err
}

// Flush syncs the log file to disk.
func (cl *CentralLogger) Flush() error {
	if cl == nil {
		return nil
	}
	cl.fileMu.Lock()
	defer cl.fileMu.Unlock()

	if cl.file == nil {
		return nil
	}
	return cl.file.Sync()
}

type lockedWriter struct {
	w  io.Writer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

func ensureFileDirectory(filePath string) error {
	dir := filepath.Dir(filePath)
	if dir == "." || dir == filePath {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// parseLogLevel converts string level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch level {
	case "trace":
		return traceLevelValue
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// moduleLogger implements Logger for a specific module
type moduleLogger struct {
	module string
	logger *slog.Logger
	level  slog.Level
	fields []Field
}

// NewSlogLogger creates a standalone text logger, mainly for tests and tools.
// A nil writer logs to stdout and a nil timezone uses local time.
func NewSlogLogger(w io.Writer, level LogLevel, tz *time.Location) Logger {
	if w == nil {
		w = os.Stdout
	}
	if tz == nil {
		tz = time.Local
	}
	slogLevel := parseLogLevel(string(level))
	return &moduleLogger{
		logger: slog.New(newTextHandler(w, slogLevel, tz)),
		level:  slogLevel,
	}
}

// Module creates a sub-module logger named parent.child.
func (m *moduleLogger) Module(name string) Logger {
	if m == nil {
		return nil
	}
	module := name
	if m.module != "" {
		module = m.module + "." + name
	}
	return &moduleLogger{
		module: module,
		logger: m.logger,
		level:  m.level,
		fields: slices.Clone(m.fields),
	}
}

func (m *moduleLogger) Trace(msg string, fields ...Field) { m.logAt(traceLevelValue, msg, fields) }
func (m *moduleLogger) Debug(msg string, fields ...Field) { m.logAt(slog.LevelDebug, msg, fields) }
func (m *moduleLogger) Info(msg string, fields ...Field)  { m.logAt(slog.LevelInfo, msg, fields) }
func (m *moduleLogger) Warn(msg string, fields ...Field)  { m.logAt(slog.LevelWarn, msg, fields) }
func (m *moduleLogger) Error(msg string, fields ...Field) { m.logAt(slog.LevelError, msg, fields) }

// Log logs a message with explicit level
func (m *moduleLogger) Log(level LogLevel, msg string, fields ...Field) {
	m.logAt(parseLogLevel(string(level)), msg, fields)
}

// With returns a new logger with accumulated fields
func (m *moduleLogger) With(fields ...Field) Logger {
	if m == nil {
		return nil
	}
	return &moduleLogger{
		module: m.module,
		logger: m.logger,
		level:  m.level,
		fields: slices.Concat(m.fields, fields),
	}
}

// WithContext returns a logger carrying the context's trace ID, if present
func (m *moduleLogger) WithContext(ctx context.Context) Logger {
	if m == nil {
		return nil
	}
	traceID := getTraceIDFromContext(ctx)
	if traceID == "" {
		return m
	}
	return m.With(String(traceIDKey, traceID))
}

// Flush is a no-op; file handles belong to the CentralLogger.
func (m *moduleLogger) Flush() error {
	return nil
}

func (m *moduleLogger) logAt(level slog.Level, msg string, fields []Field) {
	if m == nil || level < m.level {
		return
	}

	attrs := make([]slog.Attr, 0, len(m.fields)+len(fields)+1)
	if m.module != "" {
		attrs = append(attrs, slog.String(moduleKey, m.module))
	}
	for i := range m.fields {
		attrs = append(attrs, fieldToAttr(m.fields[i]))
	}
	for i := range fields {
		attrs = append(attrs, fieldToAttr(fields[i]))
	}

	m.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// fieldToAttr converts Field to slog.Attr
func fieldToAttr(f Field) slog.Attr {
	switch v := f.Value.(type) {
	case string:
		return slog.String(f.Key, v)
	case int:
		return slog.Int(f.Key, v)
	case int64:
		return slog.Int64(f.Key, v)
	case uint64:
		return slog.Uint64(f.Key, v)
	case float32:
		return slog.Float64(f.Key, roundFloat(float64(v)))
	case float64:
		return slog.Float64(f.Key, roundFloat(v))
	case bool:
		return slog.Bool(f.Key, v)
	case time.Time:
		return slog.Time(f.Key, v)
	case time.Duration:
		return slog.String(f.Key, v.Round(time.Millisecond).String())
	default:
		return slog.Any(f.Key, v)
	}
}

// roundFloat rounds to 3 decimal places for cleaner output.
func roundFloat(val float64) float64 {
	return math.Round(val*1000) / 1000
}

package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

// newTextHandler returns a human readable console handler. Timestamps are
// omitted since journald and container runtimes add their own.
func newTextHandler(w io.Writer, level slog.Level, tz *time.Location) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl <= traceLevelValue {
					return slog.String(slog.LevelKey, "TRACE")
				}
			}
			if a.Value.Kind() == slog.KindTime {
				return slog.String(a.Key, a.Value.Time().In(tz).Format(time.RFC3339))
			}
			return a
		},
	})
}

// multiWriterHandler writes to multiple slog handlers
type multiWriterHandler struct {
	handlers []slog.Handler
}

func newMultiWriterHandler(handlers ...slog.Handler) slog.Handler {
	return &multiWriterHandler{handlers: handlers}
}

func (h *multiWriterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Handler interface requires record by value
func (h *multiWriterHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *multiWriterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &multiWriterHandler{handlers: next}
}

func (h *multiWriterHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &multiWriterHandler{handlers: next}
}

// Package zapadapter adapts a *zap.Logger into an slog.Handler so hosts
// already standardized on go.uber.org/zap (as nspcc-dev/neo-go is) can plug
// it into evtrie.WithLogger without the façade ever importing zap's own API.
package zapadapter

import (
	"context"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ slog.Handler = (*Handler)(nil)

// Handler implements slog.Handler on top of a *zap.Logger.
type Handler struct {
	logger *zap.Logger
	groups []string
	attrs  []slog.Attr
}

// New returns an slog.Handler that forwards every record to logger.
func New(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.Core().Enabled(toZapLevel(level))
}

func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]zap.Field, 0, len(h.attrs)+record.NumAttrs())
	for _, a := range h.attrs {
		fields = append(fields, h.field(a))
	}
	record.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.field(a))
		return true
	})

	if ce := h.logger.Check(toZapLevel(record.Level), record.Message); ce != nil {
		ce.Time = record.Time
		ce.Write(fields...)
	}
	return nil
}

func (h *Handler) field(a slog.Attr) zap.Field {
	key := a.Key
	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}
	return zap.Any(key, a.Value.Resolve().Any())
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string{}, h.groups...), name)
	return &next
}

func toZapLevel(l slog.Level) zapcore.Level {
	switch {
	case l >= slog.LevelError:
		return zapcore.ErrorLevel
	case l >= slog.LevelWarn:
		return zapcore.WarnLevel
	case l >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

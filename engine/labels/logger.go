package labels

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record and reports itself disabled so callers
// skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by the label context. By default
// nothing is logged; pass nil to restore that.
//
// Levels:
//   - Debug: per-frame uploads (dirty transform rows, drained vertices)
//   - Info: buffer lifecycle and transform texture growth
//   - Warn: unresolved id overflows
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

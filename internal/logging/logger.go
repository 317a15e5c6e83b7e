// Package logging provides structured logging for the generator.
//
// Three formats are available: "text" and "json" use the slog handlers,
// "console" prints compact colored lines:
// [LEVEL] [HH:MM:SS] message key=value
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ginjaninja78/edifact-orders/internal/types"
)

// ParseLevel maps a config level name to a slog level. Unknown names map to
// info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a logger writing to stderr.
func NewLogger(level, format string) *slog.Logger {
	return NewLoggerTo(os.Stderr, level, format)
}

// NewLoggerTo creates a logger writing to w.
func NewLoggerTo(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "console":
		handler = NewConsoleHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// NewHook adapts logger to a generation hook. Skipped entities and
// unchecked dates are warnings; progress events are debug output.
func NewHook(logger *slog.Logger) types.Hook {
	return func(e types.Event) {
		attrs := []any{"message_ref", e.MessageRef}
		if e.Index > 0 {
			attrs = append(attrs, "index", e.Index)
		}
		if e.Reason != "" {
			attrs = append(attrs, "reason", e.Reason)
		}

		switch e.Kind {
		case types.EventPartySkipped:
			logger.Warn("party skipped", attrs...)
		case types.EventItemSkipped:
			logger.Warn("item skipped", attrs...)
		case types.EventDateUnchecked:
			logger.Warn("dates not validated", attrs...)
		case types.EventValidated:
			logger.Debug("order validated", append(attrs, "items", e.Count)...)
		case types.EventGenerated:
			logger.Debug("message generated", append(attrs, "segments", e.Count)...)
		case types.EventWriteFailed:
			logger.Error("message write failed", attrs...)
		default:
			logger.Debug(string(e.Kind), attrs...)
		}
	}
}

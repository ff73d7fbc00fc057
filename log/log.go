// Package log provides structured logging for the vcl engine and CLI. It
// wraps Go's log/slog, builds handlers with go-ethereum's log package and
// adds per-module child loggers plus redaction of secret-bearing attributes.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Logger wraps slog.Logger with module context.
type Logger struct {
	inner *slog.Logger
}

// defaultLogger is the process-wide logger used by the package-level
// convenience functions.
var defaultLogger *Logger

func init() {
	defaultLogger = New(slog.LevelInfo)
}

// New creates a Logger that writes JSON to stderr at the given level.
func New(level slog.Level) *Logger {
	return NewWithHandler(gethlog.JSONHandlerWithLevel(os.Stderr, level))
}

// NewWithFormat creates a Logger writing to w in one of the formats accepted
// by ParseFormat.
func NewWithFormat(w io.Writer, format Format, level slog.Level) *Logger {
	var h slog.Handler
	switch format {
	case FormatTerminal:
		h = gethlog.NewTerminalHandlerWithLevel(w, level, false)
	case FormatLogfmt:
		h = gethlog.LogfmtHandlerWithLevel(w, level)
	default:
		h = gethlog.JSONHandlerWithLevel(w, level)
	}
	return NewWithHandler(h)
}

// NewWithHandler creates a Logger backed by the supplied slog.Handler. The
// handler is wrapped so that attributes under SecretKeys never reach it in
// clear.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{inner: slog.New(Redact(h, SecretKeys...))}
}

// SetDefault replaces the package-level default logger.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Default returns the current package-level default logger.
func Default() *Logger {
	return defaultLogger
}

// Discard returns a Logger that drops every record.
func Discard() *Logger {
	return NewWithHandler(gethlog.DiscardHandler())
}

// Module returns a child logger with an additional "module" attribute.
func (l *Logger) Module(name string) *Logger {
	return &Logger{inner: l.inner.With("module", name)}
}

// With returns a child logger with additional key-value context.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{inner: l.inner.With(args...)}
}

// Enabled reports whether records at level would be emitted. Callers use it
// to skip building expensive attributes such as hex encodings.
func (l *Logger) Enabled(level slog.Level) bool {
	return l.inner.Enabled(context.Background(), level)
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }

// Info logs at LevelInfo.
func (l *Logger) Info(msg string, args ...any) { l.inner.Info(msg, args...) }

// Warn logs at LevelWarn.
func (l *Logger) Warn(msg string, args ...any) { l.inner.Warn(msg, args...) }

// Error logs at LevelError.
func (l *Logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// ---------------------------------------------------------------------------
// Package-level convenience functions -- delegate to defaultLogger.
// ---------------------------------------------------------------------------

// Debug logs at LevelDebug using the default logger.
func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }

// Info logs at LevelInfo using the default logger.
func Info(msg string, args ...any) { defaultLogger.Info(msg, args...) }

// Warn logs at LevelWarn using the default logger.
func Warn(msg string, args ...any) { defaultLogger.Warn(msg, args...) }

// Error logs at LevelError using the default logger.
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }

// Package obslog is a thin structured-logging wrapper around log/slog.
//
// Grounded on AleutianLocal/pkg/logging/logger.go's layered design
// (stderr by default, optional file output, leveled Debug/Info/Warn/Error),
// trimmed to the stderr+optional-file case: the enterprise LogExporter
// interface AleutianLocal builds on is out of scope here, since logging
// itself is an external collaborator's concern — only the ambient
// "log what this solve is doing" need remains.
package obslog

import (
	"io"
	"log/slog"
	"os"
)

// Level mirrors slog's four levels.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger wraps a *slog.Logger; With attaches fields such as a "component"
// name to every record it writes.
type Logger struct {
	inner *slog.Logger
}

// New builds a Logger writing to w at the given minimum level, in text
// form — the CLI-friendly default favoring fmt.Printf-based
// reporting favored.
func New(w io.Writer, level Level) *Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{inner: slog.New(h)}
}

// Default builds a Logger at Info level writing to stderr.
func Default() *Logger {
	return New(os.Stderr, LevelInfo)
}

// Discard builds a Logger that drops every record, for tests that don't
// want log noise but still need a non-nil *Logger.
func Discard() *Logger {
	return New(io.Discard, LevelError+1)
}

func (l *Logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// With returns a Logger with the given key/value pairs attached to every
// subsequent record (e.g. With("engine", "lao*", "run_id", id)).
func (l *Logger) With(args ...any) *Logger {
	return &Logger{inner: l.inner.With(args...)}
}

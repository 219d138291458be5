// Package logging defines the structured-logging interface used by the
// Chepeat client. Backends wrap slog (default) or zap.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Error(ctx, "operation failed", "action", "accept purchase request", "err", err)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a Logger writing to stderr for the given backend and level
// ("debug", "info", "warn", "error").
func New(backend, level string) (Logger, error) {
	switch strings.ToLower(backend) {
	case "", BackendSlog:
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseSlogLevel(level)})
		return NewSlogLogger(slog.New(h)), nil
	case BackendZap:
		return NewZapLogger(level)
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

func parseSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

type fieldsKey struct{}

// WithFields returns a copy of ctx carrying key–value pairs that every
// backend adds to entries logged with that context.
func WithFields(ctx context.Context, args ...any) context.Context {
	return context.WithValue(ctx, fieldsKey{}, withContextFields(ctx, args))
}

func withContextFields(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	fields, _ := ctx.Value(fieldsKey{}).([]any)
	if len(fields) == 0 {
		return args
	}
	return append(slices.Clip(fields), args...)
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.DiscardHandler))
}

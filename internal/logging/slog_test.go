package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	l := slog.New(h)
	return NewSlogLogger(l), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "cache hit", "key", "sellerData")
	log.Info(ctx, "role changed", "role", "seller")
	log.Warn(ctx, "seller lookup failed", "seller_id", "S1")
	log.Error(ctx, "operation failed", "action", "login")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		`level=DEBUG msg="cache hit" key=sellerData`,
		`level=INFO msg="role changed" role=seller`,
		`level=WARN msg="seller lookup failed" seller_id=S1`,
		`level=ERROR msg="operation failed" action=login`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i, w := range want {
		if !strings.Contains(lines[i], w) {
			t.Fatalf("line %d = %q, want it to contain %q", i, lines[i], w)
		}
	}
}

func TestSlogLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	log.Info(context.Background(), "dropped")
	log.Warn(context.Background(), "kept")

	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("component", "discovery").Info(context.Background(), "done", "found", 6)

	out := buf.String()
	for _, s := range []string{"component=discovery", "msg=done", "found=6"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestSlogLogger_ContextFields(t *testing.T) {
	log, buf := newTestLogger(t)

	ctx := WithFields(context.Background(), "command", "nearby")
	ctx = WithFields(ctx, "attempt", 2)
	log.Warn(ctx, "seller lookup failed", "seller_id", "S1")

	out := buf.String()
	for _, s := range []string{"command=nearby", "attempt=2", "seller_id=S1"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
	if strings.Index(out, "command=") > strings.Index(out, "seller_id=") {
		t.Fatalf("context fields should precede call args:\n%s", out)
	}
}

func TestParseSlogLevel(t *testing.T) {
	cases := map[string]string{"debug": "DEBUG", "warn": "WARN", "error": "ERROR", "": "INFO", "bogus": "INFO"}
	for in, want := range cases {
		if got := parseSlogLevel(in).String(); got != want {
			t.Fatalf("parseSlogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	l.With("k", "v").Error(context.Background(), "discarded")
}

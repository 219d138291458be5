package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_WritesFieldsAndWith(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewZapLoggerFrom(zap.New(core))
	ctx := context.Background()

	log.With("request_id", "r-1").Error(ctx, "operation failed", "action", "reject purchase request")
	log.Debug(ctx, "dbg")

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "operation failed", entry.Message)
	fields := entry.ContextMap()
	require.Equal(t, "r-1", fields["request_id"])
	require.Equal(t, "reject purchase request", fields["action"])
}

func TestZapLogger_ContextFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := NewZapLoggerFrom(zap.New(core))
	ctx := WithFields(context.Background(), "command", "accept")

	log.Info(ctx, "purchase request accepted", "request_id", "R1")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	require.Equal(t, "accept", fields["command"])
	require.Equal(t, "R1", fields["request_id"])
}

func TestNew_Backends(t *testing.T) {
	l, err := New("slog", "debug")
	require.NoError(t, err)
	require.IsType(t, &SlogLogger{}, l)

	l, err = New("zap", "warn")
	require.NoError(t, err)
	require.IsType(t, &ZapLogger{}, l)

	_, err = New("logrus", "info")
	require.Error(t, err)
}

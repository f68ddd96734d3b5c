package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })

	ctx := WithContext(context.Background(), zap.String("request_id", "r-1"))
	ctx = WithContext(ctx, zap.String("user", "alice"))

	Warnf(ctx, "skipping %s", "x")
	Errorf(context.Background(), "plain")

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "skipping x", entries[0].Message)
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "alice", fields["user"])
	assert.Empty(t, entries[1].ContextMap())
}

func TestErrorKeepsStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })

	ctx := WithContext(context.Background(), zap.String("request_id", "r-2"))
	Error(ctx, "request failed", zap.Int("status", 502))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "request failed", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "r-2", fields["request_id"])
	assert.EqualValues(t, 502, fields["status"])
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	_, err := Init(Config{Level: "loud"})
	assert.Error(t, err)
}

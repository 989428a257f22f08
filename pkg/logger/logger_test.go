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

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewDefaultsEncoding(t *testing.T) {
	l, err := New(Config{Level: "debug"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestWithContextAddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Get()
	Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })

	ctx := context.WithValue(context.Background(), PoolKey, "buffers")
	ctx = context.WithValue(ctx, WorkerKey, 3)
	WithContext(ctx).Info("rented")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "buffers", fields["pool"])
	assert.EqualValues(t, 3, fields["worker"])
}

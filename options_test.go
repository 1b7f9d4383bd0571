package evtrie

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLoggerSetsLogger(t *testing.T) {
	b := NewBus(WithLogger(slog.NewTextHandler(nopWriter{}, nil)))
	assert.NotNil(t, b.logger)
}

func TestWithLoggerNilHandlerIsNoOp(t *testing.T) {
	b := NewBus(WithLogger(nil))
	assert.Nil(t, b.logger)
}

func TestWithPanicRecoveryDefaultsHandler(t *testing.T) {
	b := NewBus(WithPanicRecovery(nil))
	assert.True(t, b.recover)
	require.NotNil(t, b.onPanic)
}

func TestWithPanicRecoveryCustomHandler(t *testing.T) {
	called := false
	b := NewBus(WithPanicRecovery(func(string, []any, error) { called = true }))
	assert.True(t, b.recover)
	b.onPanic("x", nil, nil)
	assert.True(t, called)
}

func TestWithCacheSetsCapacity(t *testing.T) {
	b := NewBus(WithCache(16))
	assert.Equal(t, 16, b.cacheCap)
	assert.NotNil(t, b.cache)
}

func TestWithCacheNonPositiveIsNoOp(t *testing.T) {
	b := NewBus(WithCache(0))
	assert.Equal(t, 0, b.cacheCap)
	assert.Nil(t, b.cache)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

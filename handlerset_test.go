package evtrie

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerSetAddIsIdempotent(t *testing.T) {
	s := newHandlerSet()
	h := NewHandler(func(string, []any) {})
	assert.True(t, s.add(h))
	assert.False(t, s.add(h))
	assert.Equal(t, 1, s.len())
}

func TestHandlerSetPreservesInsertionOrder(t *testing.T) {
	s := newHandlerSet()
	var hs []*Handler
	for i := 0; i < 5; i++ {
		h := NewHandler(func(string, []any) {})
		hs = append(hs, h)
		s.add(h)
	}
	assert.Equal(t, hs, s.snapshot())
}

func TestHandlerSetRemovePreservesOrderOfRemainder(t *testing.T) {
	s := newHandlerSet()
	h1, h2, h3 := NewHandler(func(string, []any) {}), NewHandler(func(string, []any) {}), NewHandler(func(string, []any) {})
	s.add(h1)
	s.add(h2)
	s.add(h3)

	assert.True(t, s.remove(h2))
	assert.False(t, s.remove(h2))
	assert.Equal(t, []*Handler{h1, h3}, s.snapshot())
}

func TestHandlerSetNilReceiverIsEmpty(t *testing.T) {
	var s *handlerSet
	assert.Equal(t, 0, s.len())
	assert.Nil(t, s.snapshot())
}

func TestHandlerSetSnapshotIsACopy(t *testing.T) {
	s := newHandlerSet()
	h := NewHandler(func(string, []any) {})
	s.add(h)
	snap := s.snapshot()
	snap[0] = nil
	assert.NotNil(t, s.snapshot()[0])
}

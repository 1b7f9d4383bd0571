// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/fox/blob/master/LICENSE.txt.

package evtrie

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Bus is the public façade over Index: it accepts both '*'-wildcard string
// patterns, which it multiplexes down to an Index, and opaque, non-string
// identity keys, which it keeps in a plain map. This is the boundary spec.md
// §1 calls out as "out of scope" for the core: unlike Index, Bus is safe for
// concurrent use, since the string-keyed trie and the opaque-key map share
// one mutex.
type Bus struct {
	mu  sync.Mutex
	idx Index

	opaque map[any][]opaqueSub

	cache *lru.Cache[string, []match]

	logger  *slog.Logger
	recover bool
	onPanic RecoveryFunc

	cacheCap int
}

type opaqueSub struct {
	h       *Handler
	oneshot bool
}

// NewBus returns a ready-to-use Bus configured by opts.
func NewBus(opts ...Option) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt.apply(b)
	}
	if b.cacheCap > 0 {
		c, err := lru.New[string, []match](b.cacheCap)
		if err == nil {
			b.cache = c
		}
	}
	return b
}

// Subscribe registers fn against key, as a permanent handler unless oneshot
// is true. If key is a string, it is inserted into the underlying Index as a
// '*'-wildcard pattern (spec.md §4.4.1); any other key is appended to an
// opaque per-key handler list. Returns ErrNilHandler if fn is nil.
func (b *Bus) Subscribe(key any, fn HandlerFunc, oneshot bool) (*Handler, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	h := NewHandler(fn)

	b.mu.Lock()
	defer b.mu.Unlock()

	if pattern, ok := key.(string); ok {
		b.idx.Insert(pattern, h, oneshot)
		b.invalidateCacheLocked()
		return h, nil
	}

	if b.opaque == nil {
		b.opaque = make(map[any][]opaqueSub)
	}
	b.opaque[key] = append(b.opaque[key], opaqueSub{h: h, oneshot: oneshot})
	return h, nil
}

// Unsubscribe removes h from key's subscriptions, or every handler on key
// when h is nil. No-op if key is not registered or h is not attached to it.
func (b *Bus) Unsubscribe(key any, h *Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if pattern, ok := key.(string); ok {
		b.idx.Remove(pattern, h)
		b.invalidateCacheLocked()
		return
	}

	subs, ok := b.opaque[key]
	if !ok {
		return
	}
	if h == nil {
		delete(b.opaque, key)
		return
	}
	for i, s := range subs {
		if s.h == h {
			subs = append(subs[:i], subs[i+1:]...)
			if len(subs) == 0 {
				delete(b.opaque, key)
			} else {
				b.opaque[key] = subs
			}
			return
		}
	}
}

// Emit dispatches key to every matching subscription, passing args through
// unchanged, and reports whether any handler fired. ctx is used only to
// scope the structured log record written when a logger is configured (see
// WithLogger); Emit never blocks on it.
func (b *Bus) Emit(ctx context.Context, key any, args ...any) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	var (
		matched int
		label   string
	)
	if pattern, ok := key.(string); ok {
		label = pattern
		matched = b.emitString(pattern, args)
	} else {
		label = fmt.Sprintf("%v", key)
		matched = b.emitOpaque(key, args)
	}

	if b.logger != nil {
		logEmit(ctx, b.logger, label, matched, time.Since(start))
	}
	return matched > 0
}

// emitString runs discovery (through the cache, if configured) and invokes
// every matched handler, applying panic recovery when WithPanicRecovery is
// set. It cannot delegate to Index.Dispatch because the core has no concept
// of recovery (spec.md §7): the façade is exactly where that policy lives.
func (b *Bus) emitString(name string, args []any) int {
	matches := b.discoverLocked(name)

	structural := false
	for _, m := range matches {
		if m.n.oneshot.len() > 0 {
			structural = true
			break
		}
	}

	count := 0
	for _, m := range matches {
		if m.n.permanent != nil {
			for _, h := range m.n.permanent.snapshot() {
				b.invokeOne(name, args, h)
				count++
			}
		}
		if m.n.oneshot != nil {
			for _, h := range m.n.oneshot.snapshot() {
				m.n.oneshot.remove(h)
				if m.n.oneshot.len() == 0 {
					m.n.oneshot = nil
				}
				b.invokeOne(name, args, h)
				count++
			}
		}
	}

	for i := len(matches) - 1; i >= 0; i-- {
		b.idx.shrinkChain(matches[i].trail, matches[i].n)
	}

	if structural && b.cache != nil {
		b.cache.Purge()
	}
	return count
}

func (b *Bus) discoverLocked(name string) []match {
	if b.cache == nil {
		return b.idx.discover(name)
	}
	if m, ok := b.cache.Get(name); ok {
		return m
	}
	m := b.idx.discover(name)
	b.cache.Add(name, m)
	return m
}

func (b *Bus) emitOpaque(key any, args []any) int {
	subs := b.opaque[key]
	if len(subs) == 0 {
		return 0
	}
	snapshot := make([]opaqueSub, len(subs))
	copy(snapshot, subs)

	label := fmt.Sprintf("%v", key)
	kept := subs[:0:0]
	for _, s := range snapshot {
		b.invokeOne(label, args, s.h)
		if !s.oneshot {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(b.opaque, key)
	} else {
		b.opaque[key] = kept
	}
	return len(snapshot)
}

func (b *Bus) invokeOne(name string, args []any, h *Handler) {
	if b.recover {
		recoverDispatch(b.logger, name, args, h, b.onPanic)
		return
	}
	h.invoke(name, args)
}

func (b *Bus) invalidateCacheLocked() {
	if b.cache != nil {
		b.cache.Purge()
	}
}

// HandlersCount returns the number of handlers registered directly on
// pattern's exact terminal node. Only meaningful for string keys; the
// opaque-key map has no notion of trie descent.
func (b *Bus) HandlersCount(pattern string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.idx.HandlersCount(pattern)
}

// Patterns returns a snapshot of every registered string pattern, in
// unspecified order.
func (b *Bus) Patterns() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.idx.PatternSlice()
}

// Clear resets both the string-pattern trie and the opaque-key map to empty.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.idx.Clear()
	b.opaque = nil
	b.invalidateCacheLocked()
}

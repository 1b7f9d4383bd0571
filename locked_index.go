// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/fox/blob/master/LICENSE.txt.

package evtrie

import (
	"iter"
	"sync"
)

// LockedIndex wraps an Index with a sync.Mutex, giving callers who want to
// share one Index across goroutines an explicit, opt-in way to do it. Index
// itself never takes a lock: the core stays single-threaded and allocation
// conscious, and LockedIndex is the boundary where synchronization is added.
type LockedIndex struct {
	mu  sync.Mutex
	idx Index
}

// NewLockedIndex returns a ready-to-use, empty LockedIndex.
func NewLockedIndex() *LockedIndex {
	return &LockedIndex{}
}

func (li *LockedIndex) Insert(pattern string, handler *Handler, oneshot bool) {
	li.mu.Lock()
	defer li.mu.Unlock()
	li.idx.Insert(pattern, handler, oneshot)
}

func (li *LockedIndex) Remove(pattern string, handler *Handler) {
	li.mu.Lock()
	defer li.mu.Unlock()
	li.idx.Remove(pattern, handler)
}

func (li *LockedIndex) Dispatch(name string, args ...any) bool {
	li.mu.Lock()
	defer li.mu.Unlock()
	return li.idx.Dispatch(name, args...)
}

func (li *LockedIndex) Handlers(pattern string) []*Handler {
	li.mu.Lock()
	defer li.mu.Unlock()
	return li.idx.Handlers(pattern)
}

func (li *LockedIndex) HandlersCount(pattern string) int {
	li.mu.Lock()
	defer li.mu.Unlock()
	return li.idx.HandlersCount(pattern)
}

func (li *LockedIndex) Clear() {
	li.mu.Lock()
	defer li.mu.Unlock()
	li.idx.Clear()
}

// Patterns returns a snapshot of every registered pattern. Unlike Index's own
// Patterns, this cannot be a live iterator over the trie: holding the lock
// for the caller's entire ranging loop would defeat the point of locking only
// around individual operations, so the snapshot is collected while the lock
// is held and handed back as a plain sequence.
func (li *LockedIndex) Patterns() iter.Seq[string] {
	li.mu.Lock()
	snapshot := li.idx.PatternSlice()
	li.mu.Unlock()
	return func(yield func(string) bool) {
		for _, p := range snapshot {
			if !yield(p) {
				return
			}
		}
	}
}

// Lock acquires the mutex and returns the underlying Index for direct,
// lock-held use, e.g. to batch several mutations under one critical section.
// The caller must call Unlock when finished.
func (li *LockedIndex) Lock() *Index {
	li.mu.Lock()
	return &li.idx
}

// Unlock releases the mutex acquired by Lock.
func (li *LockedIndex) Unlock() {
	li.mu.Unlock()
}

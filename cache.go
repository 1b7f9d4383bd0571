// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/fox/blob/master/LICENSE.txt.

package evtrie

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedIndex wraps an Index with an LRU cache of the discovery result (the
// set of matching terminal nodes) keyed by event name. It is for workloads
// that repeatedly Dispatch a small set of hot names against a large pattern
// population: a cache hit skips the trie walk and KMP scan entirely and goes
// straight to the invocation phase.
//
// The cache is purged on every Insert, Remove and Clear, since any of those
// can change which nodes a name matches. It is also purged after a Dispatch
// that consumed a one-shot handler or triggered a structural shrink, since
// the cached node set may no longer reflect the trie. A read-only workload
// (no one-shots, no mutation after warm-up) never pays that cost.
type CachedIndex struct {
	idx   Index
	cache *lru.Cache[string, []match]
}

// NewCachedIndex returns a CachedIndex holding at most capacity distinct
// event names' discovery results at a time.
func NewCachedIndex(capacity int) *CachedIndex {
	c, err := lru.New[string, []match](capacity)
	if err != nil {
		// Only returned for a non-positive capacity.
		c, _ = lru.New[string, []match](1)
	}
	return &CachedIndex{cache: c}
}

func (ci *CachedIndex) Insert(pattern string, handler *Handler, oneshot bool) {
	ci.idx.Insert(pattern, handler, oneshot)
	ci.cache.Purge()
}

func (ci *CachedIndex) Remove(pattern string, handler *Handler) {
	ci.idx.Remove(pattern, handler)
	ci.cache.Purge()
}

func (ci *CachedIndex) Clear() {
	ci.idx.Clear()
	ci.cache.Purge()
}

func (ci *CachedIndex) Handlers(pattern string) []*Handler {
	return ci.idx.Handlers(pattern)
}

func (ci *CachedIndex) HandlersCount(pattern string) int {
	return ci.idx.HandlersCount(pattern)
}

func (ci *CachedIndex) Patterns() []string {
	return ci.idx.PatternSlice()
}

// Dispatch fires every handler matching name, reusing a cached discovery
// result when one exists for name.
func (ci *CachedIndex) Dispatch(name string, args ...any) bool {
	matches, ok := ci.cache.Get(name)
	if !ok {
		matches = ci.idx.discover(name)
		ci.cache.Add(name, matches)
	}

	structural := false
	for _, m := range matches {
		if m.n.oneshot.len() > 0 {
			structural = true
			break
		}
	}

	fired := ci.idx.invoke(name, args, matches)

	if structural {
		ci.cache.Purge()
	}
	return fired
}

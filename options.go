// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/fox/blob/master/LICENSE.txt.

package evtrie

import "log/slog"

// Option configures a Bus at construction time.
type Option interface {
	apply(*Bus)
}

type optionFunc func(*Bus)

func (o optionFunc) apply(b *Bus) {
	o(b)
}

// WithLogger attaches handler as the Bus's structured logger. Every Emit call
// is logged at Debug (no match) or Info (at least one handler ran). By
// default, a Bus logs nothing.
func WithLogger(handler slog.Handler) Option {
	return optionFunc(func(b *Bus) {
		if handler != nil {
			b.logger = slog.New(handler)
		}
	})
}

// WithPanicRecovery enables panic recovery around every handler invocation.
// The recovered value and a short stack trace are logged through the Bus's
// logger (see WithLogger), then handle is called. If handle is nil,
// DefaultHandleRecovery is used, which swallows the panic. Without this
// option, a panicking handler propagates out of Emit and aborts the
// remaining dispatch for that event.
func WithPanicRecovery(handle RecoveryFunc) Option {
	return optionFunc(func(b *Bus) {
		if handle == nil {
			handle = DefaultHandleRecovery
		}
		b.recover = true
		b.onPanic = handle
	})
}

// WithCache enables an LRU cache, sized to capacity entries, of the matched
// handler set for each distinct event name. The cache is invalidated whenever
// Subscribe, Unsubscribe or Clear mutates the underlying Index. Use this for
// workloads that repeatedly emit a small set of hot event names against a
// large pattern population; it trades memory for skipping discovery on a
// cache hit.
func WithCache(capacity int) Option {
	return optionFunc(func(b *Bus) {
		if capacity > 0 {
			b.cacheCap = capacity
		}
	})
}

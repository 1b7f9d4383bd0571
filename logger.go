// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/fox/blob/master/LICENSE.txt.

package evtrie

import (
	"context"
	"log/slog"
	"time"
)

// Keys for the built-in attributes the Bus logger attaches to each Emit log
// record.
const (
	// LoggerNameKey is the key used for the dispatched event name.
	// The associated [slog.Value] is a string.
	LoggerNameKey = "name"
	// LoggerMatchedKey is the key used for the number of handlers invoked.
	// The associated [slog.Value] is an int.
	LoggerMatchedKey = "matched"
	// LoggerLatencyKey is the key used for the wall-clock time spent in Emit.
	// The associated [slog.Value] is a time.Duration.
	LoggerLatencyKey = "latency"
	// LoggerPanicKey is the key used by the recovery middleware for a
	// recovered panic value. The associated [slog.Value] is any.
	LoggerPanicKey = "panic"
)

// logEmit records one Emit call at a level derived from its outcome: Debug
// when no handler matched, Info otherwise. A handler panic is logged
// separately by the recovery middleware, at Error.
func logEmit(ctx context.Context, logger *slog.Logger, name string, matched int, latency time.Duration) {
	if logger == nil {
		return
	}
	lvl := slog.LevelInfo
	if matched == 0 {
		lvl = slog.LevelDebug
	}
	logger.LogAttrs(ctx, lvl, "emit",
		slog.String(LoggerNameKey, name),
		slog.Int(LoggerMatchedKey, matched),
		slog.Duration(LoggerLatencyKey, latency),
	)
}

// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/fox/blob/master/LICENSE.txt.

package evtrie

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// RecoveryFunc defines how a Bus reacts to a handler panic once it has been
// recovered and logged. err is a *HandlerPanicError wrapping the value passed
// to panic; errors.Is(err, ErrHandlerPanicked) reports true for it.
type RecoveryFunc func(name string, args []any, err error)

// DefaultHandleRecovery is the default RecoveryFunc installed by
// WithPanicRecovery when none is given: it swallows the panic so the
// remaining matched handlers still run.
func DefaultHandleRecovery(string, []any, error) {}

// recoverDispatch wraps a single handler invocation with panic recovery. It
// logs the recovered value and a short stack trace through logger (if
// non-nil), then calls handle. fired is true whenever h was invoked, whether
// it returned normally or panicked and was recovered.
func recoverDispatch(logger *slog.Logger, name string, args []any, h *Handler, handle RecoveryFunc) (fired bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			fired = true
			err := &HandlerPanicError{Name: name, Recovered: recovered}
			if logger != nil {
				logger.Error("recovered from panic in handler",
					slog.String(LoggerNameKey, name),
					slog.Any(LoggerPanicKey, recovered),
					slog.String("stack", stacktrace(3, 8)),
				)
			}
			handle(name, args, err)
		}
	}()
	h.invoke(name, args)
	return true
}

func stacktrace(skip, nFrames int) string {
	pcs := make([]uintptr, nFrames+1)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return "(no stack)"
	}
	frames := runtime.CallersFrames(pcs[:n])
	var b strings.Builder
	i := 0
	for {
		frame, more := frames.Next()
		if i > 0 {
			b.WriteByte('\n')
		}
		_, _ = fmt.Fprintf(&b, "called from %s %s:%d", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
		i++
		if i >= nFrames {
			b.WriteString("\n(rest of stack elided)")
			break
		}
	}
	return b.String()
}

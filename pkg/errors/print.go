package errors

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/StricklySoft/stricklysoft-sys/pkg/diag"
)

// Print reports err on logger at the given severity, prefixed by label.
// An *Error is rendered with its kind name and description, message,
// source location and backtrace (most recent frame first). A nil logger
// selects [diag.Default]. Print does nothing for a nil err.
func Print(ctx context.Context, logger *slog.Logger, label string, err error, sev diag.Severity) {
	if err == nil {
		return
	}
	l := diag.Or(logger)
	if e, ok := AsError(err); ok {
		l.Log(ctx, sev.Level(), fmt.Sprintf("%s: %+v", label, e),
			"kind", e.Kind.Name(),
			"location", e.Location(),
		)
		return
	}
	l.Log(ctx, sev.Level(), fmt.Sprintf("%s: %v", label, err))
}

var (
	abortMu      sync.RWMutex
	abortHandler = crash
)

// SetAbortHandler replaces the function [Fatal] uses to terminate the
// process and returns a function restoring the previous handler. The
// platform package installs its backend abort here; tests install a
// recorder.
func SetAbortHandler(fn func(reason error)) (restore func()) {
	abortMu.Lock()
	prev := abortHandler
	abortHandler = fn
	abortMu.Unlock()
	return func() {
		abortMu.Lock()
		abortHandler = prev
		abortMu.Unlock()
	}
}

// Fatal prints err at [diag.SeverityFatal] on the default diagnostic
// logger and aborts the process. It is the terminal consumer for errors
// that reach the top of a program unhandled. The default handler cannot
// be recovered from; Fatal only returns if an installed handler returns.
func Fatal(ctx context.Context, label string, err error) {
	Print(ctx, nil, label, err, diag.SeverityFatal)
	abortMu.RLock()
	h := abortHandler
	abortMu.RUnlock()
	h(err)
}

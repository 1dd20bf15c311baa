package errors

import (
	"context"
	"fmt"
	"runtime"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
)

// newError builds an Error located at the caller skip frames above
// newError and snapshots the tracker carried by ctx.
func newError(ctx context.Context, skip int, kind Kind, msg string, cause error) *Error {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		file, line = "unknown", 0
	}
	return &Error{
		Kind:      kind,
		Message:   msg,
		File:      file,
		Line:      line,
		Backtrace: callstack.FromContext(ctx).Snapshot(),
		Cause:     cause,
	}
}

// Fail creates an Error of the given kind at the caller's location,
// capturing the call chain tracked in ctx. Fail never returns nil.
//
// Example:
//
//	return errors.Fail(ctx, errors.KindBadOperation, "mutex is not locked")
func Fail(ctx context.Context, kind Kind, msg string) *Error {
	return newError(ctx, 1, kind, msg, nil)
}

// Failf is [Fail] with a formatted message. The message is formatted
// immediately.
//
// Example:
//
//	return errors.Failf(ctx, errors.KindTooLong, "need %d bytes, have %d", n, len(dst))
func Failf(ctx context.Context, kind Kind, format string, args ...any) *Error {
	return newError(ctx, 1, kind, fmt.Sprintf(format, args...), nil)
}

// FailDepth is [Fail] located depth frames above its caller. Helpers that
// create errors on behalf of their caller pass 1 so the error points at
// the helper's call site. FailDepth(ctx, 0, kind, msg) is Fail(ctx, kind, msg).
func FailDepth(ctx context.Context, depth int, kind Kind, msg string) *Error {
	return newError(ctx, depth+1, kind, msg, nil)
}

// Wrap creates an Error of the given kind whose Cause is err. If err is
// nil, Wrap returns nil.
func Wrap(ctx context.Context, err error, kind Kind, msg string) *Error {
	if err == nil {
		return nil
	}
	return newError(ctx, 1, kind, msg, err)
}

// Wrapf is [Wrap] with a formatted message. If err is nil, Wrapf returns
// nil.
func Wrapf(ctx context.Context, err error, kind Kind, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return newError(ctx, 1, kind, fmt.Sprintf(format, args...), err)
}

// WrapNative wraps a native OS error. The kind is chosen by
// [KindFromError] and the message is the formatted context followed by the
// native error's own text. If err is nil, WrapNative returns nil.
//
// Example:
//
//	if err := unix.Kill(pid, unix.SIGKILL); err != nil {
//	    return errors.WrapNative(ctx, err, "kill pid %d", pid)
//	}
func WrapNative(ctx context.Context, err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...) + ": " + nativeText(err)
	return newError(ctx, 1, KindFromError(err), msg, err)
}

// Propagate returns err unchanged. Intermediate layers may use it to mark
// that an error is being handed upward with its original kind and
// backtrace intact.
func Propagate(err error) error {
	return err
}

// FromError converts any error to an *Error. Errors that already are (or
// wrap) an *Error are returned as-is; others are wrapped with the kind
// chosen by [KindFromError].
func FromError(ctx context.Context, err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := AsError(err); ok {
		return e
	}
	return newError(ctx, 1, KindFromError(err), nativeText(err), err)
}

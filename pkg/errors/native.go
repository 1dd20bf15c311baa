package errors

import (
	"errors"
	"io/fs"
	"maps"
	"syscall"
)

// KindFromErrno maps a native error code to a Kind using the fixed table
// for the build's platform. Codes without an entry map to [KindUnknown].
func KindFromErrno(code syscall.Errno) Kind {
	if k, ok := errnoKinds[code]; ok {
		return k
	}
	return KindUnknown
}

// NativeTable returns a copy of the errno → Kind table compiled for this
// platform.
func NativeTable() map[syscall.Errno]Kind {
	return maps.Clone(errnoKinds)
}

// KindFromError classifies an arbitrary error. The chain is searched for,
// in order: an *Error (its kind), a syscall.Errno (the errno table), and
// the io/fs sentinel errors. Anything else is [KindUnknown]. Message text
// is never inspected.
func KindFromError(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return KindFromErrno(errno)
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNoSuchObject
	case errors.Is(err, fs.ErrExist):
		return KindAlreadyExists
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	case errors.Is(err, fs.ErrInvalid):
		return KindInvalidParameter
	case errors.Is(err, fs.ErrClosed):
		return KindBadOperation
	}
	return KindUnknown
}

// nativeText returns the human-readable text of a native error.
func nativeText(err error) string {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno.Error()
	}
	return err.Error()
}

package errors

import (
	"errors"
)

// AsError finds the first *Error in err's chain.
//
// Example:
//
//	if e, ok := errors.AsError(err); ok {
//	    log.Printf("kind: %s, message: %s", e.Kind, e.Message)
//	}
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of the first *Error in err's chain. Errors that
// carry no *Error are classified with [KindFromError]; nil yields
// [KindUnknown].
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindFromError(err)
}

// HasKind reports whether err is non-nil and of the given kind.
func HasKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsNoSuchObject reports whether err is a [KindNoSuchObject] error.
func IsNoSuchObject(err error) bool {
	return HasKind(err, KindNoSuchObject)
}

// IsPermission reports whether err is a [KindPermission] error.
func IsPermission(err error) bool {
	return HasKind(err, KindPermission)
}

// IsNotImplemented reports whether err is a [KindNotImplemented] error.
// Callers use it to fall back when the selected backend lacks an
// operation.
func IsNotImplemented(err error) bool {
	return HasKind(err, KindNotImplemented)
}

// IsOutOfMemory reports whether err is a [KindOutOfMemory] error.
func IsOutOfMemory(err error) bool {
	return HasKind(err, KindOutOfMemory)
}

// Is reports whether any error in err's chain matches target. It is the
// standard library's errors.Is, re-exported so callers of this package do
// not need to import both.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target. See the
// standard library's errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

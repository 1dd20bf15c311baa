package errors

import (
	"fmt"
	"strings"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
)

// Error is a failure produced by a systems-layer operation. It implements
// the standard error interface and supports errors.Is/As through Unwrap.
//
// An Error has exactly one owner at a time: the function currently holding
// it. Ownership moves up the call chain on return. The terminal consumer
// either reports it ([Print], [Fatal]) or recovers and calls
// [Error.Release]. Errors are not shared between goroutines.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Message is the formatted failure message.
	Message string

	// File and Line locate the code that created the error.
	File string
	Line int

	// Backtrace is the call chain at creation time, outermost frame
	// first. It is an owned copy; later tracker activity does not
	// change it.
	Backtrace []callstack.Frame

	// Cause is the underlying error, typically the native OS error.
	Cause error

	released bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.released {
		return "<released error>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Name(), e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Name(), e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Location returns "file:line" of the code that created the error.
func (e *Error) Location() string {
	return fmt.Sprintf("%s:%d", e.File, e.Line)
}

// Release drops the message, cause and backtrace storage. It is called by
// the consumer that recovers from an error instead of propagating it. A
// released Error must not be used again; its Error method reports
// "<released error>".
func (e *Error) Release() {
	if e == nil {
		return
	}
	e.Message = ""
	e.Cause = nil
	e.Backtrace = nil
	e.released = true
}

// Released reports whether [Error.Release] has been called.
func (e *Error) Released() bool {
	return e != nil && e.released
}

// Format implements fmt.Formatter. %v and %s print the one-line message;
// %+v adds the kind description, source location and backtrace (most
// recent frame first). Other verbs are reported the way fmt reports a bad
// verb.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprint(s, e.detail())
			return
		}
		fallthrough
	case 's':
		fmt.Fprint(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	default:
		fmt.Fprintf(s, "%%!%c(*errors.Error=%s)", verb, e.Error())
	}
}

func (e *Error) detail() string {
	if e.released {
		return "<released error>"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s): %s\n", e.Kind.Name(), e.Kind.Description(), e.Message)
	fmt.Fprintf(&sb, "  at %s\n", e.Location())
	if e.Cause != nil {
		fmt.Fprintf(&sb, "  cause: %v\n", e.Cause)
	}
	if len(e.Backtrace) > 0 {
		sb.WriteString("  backtrace:\n")
		_ = callstack.WriteFrames(&sb, e.Backtrace)
	}
	return strings.TrimRight(sb.String(), "\n")
}

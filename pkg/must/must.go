// Package must provides "require" assertions: checks that, on failure,
// print a diagnostic with the tracked call chain and abort the process.
// They never return an error and never panic for the caller to recover;
// a failed requirement is a bug.
//
// Assertions are used chiefly in tests and at program entry points:
//
//	buf, err := platform.AllocZeroed(ctx, 8, 1)
//	must.NoError(ctx, err, "allocate scratch buffer")
//	must.Equal(ctx, len(buf), 8, "scratch buffer length")
//
// Values are printed through the [Printable] constraint, so only the
// closed set of scalar kinds can be compared; the format is chosen at
// compile time rather than by inspecting values at run time.
package must

import (
	"context"
	"fmt"
	"sync"

	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// Printable is the closed set of kinds an assertion can compare and print.
type Printable interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 |
		~bool | ~string
}

// render formats v in Go syntax: strings quoted, unsigned integers in hex,
// other numbers and booleans as literals.
func render[T Printable](v T) string {
	return fmt.Sprintf("%#v", v)
}

var (
	abortMu sync.RWMutex
	abortFn = errors.Fatal
)

// SetAbort replaces the function called when an assertion fails and
// returns a function restoring the previous one. The default is
// [errors.Fatal], which prints the failure at FATAL severity and aborts
// the process.
func SetAbort(fn func(ctx context.Context, label string, err error)) (restore func()) {
	abortMu.Lock()
	prev := abortFn
	abortFn = fn
	abortMu.Unlock()
	return func() {
		abortMu.Lock()
		abortFn = prev
		abortMu.Unlock()
	}
}

func fail(ctx context.Context, label string, err error) {
	abortMu.RLock()
	fn := abortFn
	abortMu.RUnlock()
	fn(ctx, label, err)
}

// Equal requires got == want.
func Equal[T Printable](ctx context.Context, got, want T, label string) {
	if got == want {
		return
	}
	fail(ctx, label, errors.FailDepth(ctx, 1, errors.KindUnknown,
		fmt.Sprintf("expected %s, got %s", render(want), render(got))))
}

// NotEqual requires got != unwanted.
func NotEqual[T Printable](ctx context.Context, got, unwanted T, label string) {
	if got != unwanted {
		return
	}
	fail(ctx, label, errors.FailDepth(ctx, 1, errors.KindUnknown,
		fmt.Sprintf("expected any value but %s", render(unwanted))))
}

// True requires cond.
func True(ctx context.Context, cond bool, label string) {
	if cond {
		return
	}
	fail(ctx, label, errors.FailDepth(ctx, 1, errors.KindUnknown, "condition is false"))
}

// NotNil requires p to be a non-nil pointer.
func NotNil[T any](ctx context.Context, p *T, label string) {
	if p != nil {
		return
	}
	fail(ctx, label, errors.FailDepth(ctx, 1, errors.KindUnknown,
		fmt.Sprintf("expected non-nil %T", p)))
}

// NoError requires err to be nil. A failing err is reported as is, with
// the kind and backtrace it was created with.
func NoError(ctx context.Context, err error, label string) {
	if err == nil {
		return
	}
	fail(ctx, label, err)
}

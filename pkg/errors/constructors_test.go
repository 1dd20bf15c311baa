package errors

import (
	"context"
	"errors"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
)

func trackedContext(capacity int) (context.Context, *callstack.Tracker) {
	tr := callstack.NewTracker(capacity)
	return callstack.WithTracker(context.Background(), tr), tr
}

func TestFail(t *testing.T) {
	t.Parallel()
	err := Fail(context.Background(), KindBadOperation, "not locked")

	require.NotNil(t, err)
	assert.Equal(t, KindBadOperation, err.Kind)
	assert.Equal(t, "not locked", err.Message)
	assert.True(t, strings.HasSuffix(err.File, "constructors_test.go"), err.File)
	assert.Positive(t, err.Line)
	assert.Nil(t, err.Backtrace)
	assert.Nil(t, err.Cause)
}

func TestFailf(t *testing.T) {
	t.Parallel()
	err := Failf(context.Background(), KindTooLong, "need %d bytes, have %d", 9, 4)
	assert.Equal(t, "need 9 bytes, have 4", err.Message)
	assert.Equal(t, "too_long: need 9 bytes, have 4", err.Error())
}

func TestFail_CapturesBacktrace(t *testing.T) {
	t.Parallel()
	ctx, tr := trackedContext(8)
	tr.Push("main.run", "main.go", 1)
	tr.Push("platform.Open", "file.go", 2)

	err := Fail(ctx, KindNoSuchObject, "missing")

	require.Len(t, err.Backtrace, 2)
	assert.Equal(t, "main.run", err.Backtrace[0].Function)
	assert.Equal(t, "platform.Open", err.Backtrace[1].Function)
}

func TestFail_BacktraceIsSnapshot(t *testing.T) {
	t.Parallel()
	ctx, tr := trackedContext(8)
	slot := tr.Push("outer", "outer.go", 1)
	inner := tr.Push("inner", "inner.go", 2)

	err := Fail(ctx, KindIO, "failed")
	tr.Pop(inner)
	tr.Pop(slot)
	tr.Push("other", "other.go", 3)
	tr.Push("more", "more.go", 4)

	require.Len(t, err.Backtrace, 2)
	assert.Equal(t, "outer", err.Backtrace[0].Function)
	assert.Equal(t, "inner", err.Backtrace[1].Function)
}

// failInScopes creates an error three scopes deep and returns it through
// the scopes unchanged.
func failInScopes(ctx context.Context) error {
	defer callstack.Enter(ctx, "level1").Exit()
	return Propagate(failLevel2(ctx))
}

func failLevel2(ctx context.Context) error {
	defer callstack.Enter(ctx, "level2").Exit()
	return Propagate(failLevel3(ctx))
}

func failLevel3(ctx context.Context) error {
	defer callstack.Enter(ctx, "level3").Exit()
	return Fail(ctx, KindOutOfSpace, "disk full")
}

func TestPropagate_PreservesKindAndBacktrace(t *testing.T) {
	t.Parallel()
	ctx, tr := trackedContext(8)

	err := failInScopes(ctx)

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindOutOfSpace, e.Kind)
	require.Len(t, e.Backtrace, 3)
	assert.Equal(t, []string{"level1", "level2", "level3"},
		[]string{e.Backtrace[0].Function, e.Backtrace[1].Function, e.Backtrace[2].Function})
	assert.Equal(t, 0, tr.Depth(), "every scope popped on the failure path")
}

func TestPropagate_Identity(t *testing.T) {
	t.Parallel()
	err := Fail(context.Background(), KindIO, "x")
	assert.Same(t, err, Propagate(err))
	assert.Nil(t, Propagate(nil))
}

func TestWrap(t *testing.T) {
	t.Parallel()
	cause := errors.New("native")
	err := Wrap(context.Background(), cause, KindIO, "read failed")

	require.NotNil(t, err)
	assert.Equal(t, KindIO, err.Kind)
	assert.Same(t, cause, err.Cause)
	assert.True(t, strings.HasSuffix(err.File, "constructors_test.go"))
}

func TestWrap_NilError(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Wrap(context.Background(), nil, KindIO, "x"))
	assert.Nil(t, Wrapf(context.Background(), nil, KindIO, "x %d", 1))
	assert.Nil(t, WrapNative(context.Background(), nil, "x"))
	assert.Nil(t, FromError(context.Background(), nil))
}

func TestWrapf(t *testing.T) {
	t.Parallel()
	err := Wrapf(context.Background(), errors.New("n"), KindIO, "read %q", "/a")
	assert.Equal(t, `read "/a"`, err.Message)
}

func TestWrapNative_Errno(t *testing.T) {
	t.Parallel()
	_, statErr := os.Stat("/definitely/not/here")
	require.Error(t, statErr)

	err := WrapNative(context.Background(), statErr, "stat %s", "/definitely/not/here")

	assert.Equal(t, KindNoSuchObject, err.Kind)
	assert.Equal(t, "stat /definitely/not/here: "+syscall.ENOENT.Error(), err.Message)
	assert.ErrorIs(t, err, statErr)
}

func TestFromError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	original := Fail(ctx, KindInUse, "busy")
	assert.Same(t, original, FromError(ctx, original))

	plain := errors.New("plain")
	converted := FromError(ctx, plain)
	assert.Equal(t, KindUnknown, converted.Kind)
	assert.Equal(t, "plain", converted.Message)
	assert.Same(t, plain, converted.Cause)
}

// failHelper creates an error on behalf of its caller.
func failHelper(ctx context.Context) *Error {
	return FailDepth(ctx, 1, KindUnknown, "helper")
}

func TestFailDepth_LocatesCaller(t *testing.T) {
	t.Parallel()
	direct := FailDepth(context.Background(), 0, KindIO, "direct")
	viaHelper := failHelper(context.Background())

	assert.True(t, strings.HasSuffix(direct.File, "constructors_test.go"))
	assert.True(t, strings.HasSuffix(viaHelper.File, "constructors_test.go"))
	assert.Greater(t, viaHelper.Line, direct.Line, "located at the helper's call site")
}

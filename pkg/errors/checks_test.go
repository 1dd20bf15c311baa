package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsError_SystemError(t *testing.T) {
	t.Parallel()
	sysErr := Fail(context.Background(), KindIO, "test")

	got, ok := AsError(sysErr)
	require.True(t, ok)
	assert.Same(t, sysErr, got)
}

func TestAsError_WrappedByStdlib(t *testing.T) {
	t.Parallel()
	sysErr := Fail(context.Background(), KindInUse, "busy")
	wrapped := fmt.Errorf("outer: %w", sysErr)

	got, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindInUse, got.Kind)
}

func TestAsError_StandardError(t *testing.T) {
	t.Parallel()
	got, ok := AsError(errors.New("standard error"))
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestAsError_Nil(t *testing.T) {
	t.Parallel()
	got, ok := AsError(nil)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestAsError_Joined(t *testing.T) {
	t.Parallel()
	sysErr := Fail(context.Background(), KindOutOfHandles, "fd table full")
	joined := errors.Join(errors.New("outer"), sysErr)

	got, ok := AsError(joined)
	require.True(t, ok)
	assert.Equal(t, KindOutOfHandles, got.Kind)
}

func TestKindOf(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"system error", Fail(ctx, KindTooShort, "x"), KindTooShort},
		{"wrapped system error", fmt.Errorf("w: %w", Fail(ctx, KindBadContent, "x")), KindBadContent},
		{"plain error", errors.New("plain"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	assert.True(t, IsNoSuchObject(Fail(ctx, KindNoSuchObject, "x")))
	assert.True(t, IsPermission(Fail(ctx, KindPermission, "x")))
	assert.True(t, IsNotImplemented(Fail(ctx, KindNotImplemented, "x")))
	assert.True(t, IsOutOfMemory(Fail(ctx, KindOutOfMemory, "x")))

	assert.False(t, IsNoSuchObject(Fail(ctx, KindIO, "x")))
	assert.False(t, HasKind(nil, KindUnknown), "nil is never of any kind")
}

func TestIsAs_Forwarding(t *testing.T) {
	t.Parallel()
	sentinel := errors.New("sentinel")
	err := Wrap(context.Background(), sentinel, KindIO, "wrapped")

	assert.True(t, Is(err, sentinel))

	var target *Error
	require.True(t, As(fmt.Errorf("outer: %w", err), &target))
	assert.Equal(t, KindIO, target.Kind)
}

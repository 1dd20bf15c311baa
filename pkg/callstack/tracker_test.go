package callstack

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================================================================
// Push / Pop
// ===========================================================================

func TestTracker_PushPopRestoresDepth(t *testing.T) {
	t.Parallel()
	tr := NewTracker(8)

	slot := tr.Push("outer", "outer.go", 0x10)
	require.Equal(t, 1, tr.Depth())
	tr.Pop(slot)
	assert.Equal(t, 0, tr.Depth())
}

func TestTracker_DefaultCapacity(t *testing.T) {
	t.Parallel()
	assert.Equal(t, DefaultCapacity, NewTracker(0).Capacity())
	assert.Equal(t, DefaultCapacity, NewTracker(-3).Capacity())
	assert.Equal(t, 4, NewTracker(4).Capacity())
}

// nest pushes one frame per level through real function calls and runs
// fn at the innermost level.
func nest(tr *Tracker, level, n int, fn func()) {
	if level == n {
		fn()
		return
	}
	slot := tr.Push("nest", "tracker_test.go", uintptr(level))
	defer tr.Pop(slot)
	nest(tr, level+1, n, fn)
}

func TestTracker_NestedSnapshotInCallOrder(t *testing.T) {
	t.Parallel()
	const n = 5
	tr := NewTracker(16)

	var snap []Frame
	nest(tr, 0, n, func() { snap = tr.Snapshot() })

	require.Len(t, snap, n)
	for i, f := range snap {
		assert.Equal(t, uintptr(i), f.Address, "frame %d out of order", i)
	}
	assert.Equal(t, 0, tr.Depth())
}

func TestTracker_PopInnermostRestoresNMinusOne(t *testing.T) {
	t.Parallel()
	tr := NewTracker(8)
	tr.Push("a", "a.go", 1)
	tr.Push("b", "b.go", 2)
	inner := tr.Push("c", "c.go", 3)

	tr.Pop(inner)

	snap := tr.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "b", snap[1].Function)
}

func TestTracker_SnapshotIsCopy(t *testing.T) {
	t.Parallel()
	tr := NewTracker(8)
	tr.Push("a", "a.go", 1)
	snap := tr.Snapshot()

	tr.Push("b", "b.go", 2)
	tr.PopMostRecent()
	tr.PopMostRecent()
	tr.Push("z", "z.go", 9)

	require.Len(t, snap, 1)
	assert.Equal(t, "a", snap[0].Function)
}

func TestTracker_SnapshotEmptyAndNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, NewTracker(4).Snapshot())
	var tr *Tracker
	assert.Nil(t, tr.Snapshot())
}

func TestTracker_Top(t *testing.T) {
	t.Parallel()
	tr := NewTracker(4)
	_, ok := tr.Top()
	assert.False(t, ok)

	tr.Push("a", "a.go", 1)
	tr.Push("b", "b.go", 2)
	top, ok := tr.Top()
	require.True(t, ok)
	assert.Equal(t, "b", top.Function)
}

// ===========================================================================
// Misuse
// ===========================================================================

func TestTracker_OverflowPanics(t *testing.T) {
	t.Parallel()
	tr := NewTracker(2)
	tr.Push("a", "a.go", 1)
	tr.Push("b", "b.go", 2)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		oe, ok := r.(*OverflowError)
		require.True(t, ok, "panic value %T", r)
		assert.Equal(t, 2, oe.Capacity)
		assert.Equal(t, "c", oe.Function)
		assert.Contains(t, oe.Error(), "capacity 2 exceeded")
		assert.Contains(t, oe.Trace, "b (b.go)")
		assert.Equal(t, 2, tr.Depth())
	}()
	tr.Push("c", "c.go", 3)
}

func TestTracker_OutOfOrderPopPanics(t *testing.T) {
	t.Parallel()
	tr := NewTracker(4)
	outer := tr.Push("a", "a.go", 1)
	tr.Push("b", "b.go", 2)

	assert.PanicsWithError(t,
		"callstack: invalid pop: slot 0 is not the top of stack (depth 2)",
		func() { tr.Pop(outer) })
	assert.Equal(t, 2, tr.Depth())
}

func TestTracker_PopEmptyPanics(t *testing.T) {
	t.Parallel()
	tr := NewTracker(4)
	assert.PanicsWithError(t, "callstack: invalid pop: tracker is empty", tr.PopMostRecent)
}

func TestTracker_PushRequiresNames(t *testing.T) {
	t.Parallel()
	tr := NewTracker(4)
	assert.Panics(t, func() { tr.Push("", "a.go", 0) })
	assert.Panics(t, func() { tr.Push("a", "", 0) })
	assert.Equal(t, 0, tr.Depth())
}

// ===========================================================================
// Introspection
// ===========================================================================

func TestTracker_FramesMostRecentFirst(t *testing.T) {
	t.Parallel()
	tr := NewTracker(4)
	tr.Push("a", "a.go", 1)
	tr.Push("b", "b.go", 2)
	tr.Push("c", "c.go", 3)

	var names []string
	for slot, f := range tr.Frames() {
		names = append(names, f.Function)
		assert.Equal(t, f.Address-1, uintptr(slot))
	}
	assert.Equal(t, []string{"c", "b", "a"}, names)
}

func TestTracker_FramesStopsEarly(t *testing.T) {
	t.Parallel()
	tr := NewTracker(4)
	tr.Push("a", "a.go", 1)
	tr.Push("b", "b.go", 2)

	count := 0
	for range tr.Frames() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestTracker_Dump(t *testing.T) {
	t.Parallel()
	tr := NewTracker(4)
	tr.Push("outer", "outer.go", 0x1)
	tr.Push("inner", "inner.go", 0x2)

	out := tr.Trace()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "#0")
	assert.Contains(t, lines[0], "inner (inner.go) [0x2]")
	assert.Contains(t, lines[1], "outer (outer.go) [0x1]")
}

// ===========================================================================
// Scopes
// ===========================================================================

func scopedLeaf(ctx context.Context, seen *[]Frame) {
	defer Enter(ctx, "leaf").Exit()
	*seen = FromContext(ctx).Snapshot()
}

func scopedMiddle(ctx context.Context, seen *[]Frame) {
	defer Enter(ctx, "middle").Exit()
	scopedLeaf(ctx, seen)
}

func TestEnter_PushesCallerFrames(t *testing.T) {
	t.Parallel()
	tr := NewTracker(8)
	ctx := WithTracker(context.Background(), tr)

	var seen []Frame
	scopedMiddle(ctx, &seen)

	require.Len(t, seen, 2)
	assert.Equal(t, "middle", seen[0].Function)
	assert.Equal(t, "leaf", seen[1].Function)
	assert.True(t, strings.HasSuffix(seen[1].File, "tracker_test.go"), seen[1].File)
	assert.NotZero(t, seen[1].Address)
	assert.Equal(t, 0, tr.Depth())
}

func TestEnter_PopsOnPanic(t *testing.T) {
	t.Parallel()
	tr := NewTracker(8)
	ctx := WithTracker(context.Background(), tr)

	func() {
		defer func() { _ = recover() }()
		defer Enter(ctx, "panicking").Exit()
		panic("boom")
	}()

	assert.Equal(t, 0, tr.Depth())
}

func TestEnter_WithoutTrackerIsInert(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() {
		defer Enter(context.Background(), "nothing").Exit()
	})
	assert.Nil(t, FromContext(context.Background()))
	assert.Nil(t, ProfileFromContext(context.Background()))
}

func TestEnter_RecordsIntoProfile(t *testing.T) {
	t.Parallel()
	p := NewProfile(4)
	ctx := WithProfile(WithTracker(context.Background(), NewTracker(4)), p)

	for range 3 {
		func() { defer Enter(ctx, "site").Exit() }()
	}

	e, ok := p.Lookup("site")
	require.True(t, ok)
	assert.Equal(t, uint64(3), e.Calls)
}

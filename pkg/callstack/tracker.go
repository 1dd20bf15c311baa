// Package callstack provides the call-stack tracking and call-site profiling
// facility used by every other package in the StricklySoft systems layer.
//
// # Tracker
//
// A [Tracker] is a bounded stack of [Frame] values pushed on function entry
// and popped on exit. It is the parallel call chain that error objects
// snapshot when they are created (see pkg/errors), so a failure deep inside
// a backend carries the chain of logical operations that led to it.
//
// A Tracker belongs to exactly one call chain. It is not safe for concurrent
// use; goroutines that need tracking get their own Tracker, bound to the
// context they pass down:
//
//	ctx = callstack.WithTracker(ctx, callstack.NewTracker(0))
//
// # Scopes
//
// Functions enter a [Scope] and release it with defer, so the frame is
// popped on every exit path, including early returns and panics:
//
//	func Load(ctx context.Context) error {
//	    defer callstack.Enter(ctx, "loader.Load").Exit()
//	    ...
//	}
//
// When the context carries no Tracker, Enter and Exit do nothing.
//
// # Capacity
//
// A Tracker never grows. Pushing past its capacity panics with an
// [*OverflowError] describing the full stack. An unrecovered panic
// terminates the process, which gives deterministic abort-with-diagnostic
// behavior.
//
// # Profiling
//
// A [Profile] aggregates invocation counts and cumulative elapsed time per
// call site. Scopes record into the Profile bound to their context with
// [WithProfile]. Profiles are safe for concurrent use so a single Profile
// may aggregate many call chains and be scraped through [Profile.Collector].
package callstack

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// DefaultCapacity is the tracker capacity used when [NewTracker] is given a
// non-positive capacity.
const DefaultCapacity = 256

// Frame records one active function for backtrace reconstruction. The
// Function and File strings are expected to live for the whole process
// (string literals or runtime-provided names); Address is display-only.
type Frame struct {
	// Function is the logical operation name, e.g. "platform.Open".
	Function string `json:"function"`

	// File is the source file that entered the frame.
	File string `json:"file"`

	// Address is the program counter or function pointer of the frame.
	Address uintptr `json:"address"`
}

// String renders the frame as "function (file) [0xaddr]".
func (f Frame) String() string {
	return fmt.Sprintf("%s (%s) [%#x]", f.Function, f.File, f.Address)
}

// Slot identifies the stack position returned by [Tracker.Push]. Passing
// it to [Tracker.Pop] asserts that the frame being removed is the one that
// was pushed.
type Slot int

// Tracker is a fixed-capacity stack of call frames. The buffer is allocated
// once by [NewTracker]; Push and Pop only move the depth counter.
//
// The zero value is not usable; create Trackers with [NewTracker].
type Tracker struct {
	frames []Frame
	depth  int
}

// NewTracker creates a Tracker that holds at most capacity frames. A
// non-positive capacity selects [DefaultCapacity].
func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tracker{frames: make([]Frame, capacity)}
}

// Push appends a frame and returns its slot. The new frame is the last
// element of [Tracker.Snapshot] until it is popped.
//
// Push panics with [*OverflowError] when the tracker is full, and with an
// [*OrderError] when function or file is empty.
func (t *Tracker) Push(function, file string, addr uintptr) Slot {
	if function == "" || file == "" {
		panic(&OrderError{Op: "push", Reason: "frame requires a function and file name"})
	}
	if t.depth == len(t.frames) {
		panic(&OverflowError{Capacity: len(t.frames), Function: function, Trace: t.Trace()})
	}
	t.frames[t.depth] = Frame{Function: function, File: file, Address: addr}
	slot := Slot(t.depth)
	t.depth++
	return slot
}

// Pop removes the frame at slot, which must be the most recent frame.
// Popping any other slot is a LIFO violation and panics with
// [*OrderError].
func (t *Tracker) Pop(slot Slot) {
	if t.depth == 0 {
		panic(&OrderError{Op: "pop", Reason: "tracker is empty"})
	}
	if int(slot) != t.depth-1 {
		panic(&OrderError{
			Op:     "pop",
			Reason: fmt.Sprintf("slot %d is not the top of stack (depth %d)", slot, t.depth),
		})
	}
	t.depth--
	t.frames[t.depth] = Frame{}
}

// PopMostRecent removes the most recent frame. It panics with
// [*OrderError] when the tracker is empty.
func (t *Tracker) PopMostRecent() {
	t.Pop(Slot(t.depth - 1))
}

// Depth returns the number of active frames.
func (t *Tracker) Depth() int {
	return t.depth
}

// Capacity returns the maximum number of frames the tracker can hold.
func (t *Tracker) Capacity() int {
	return len(t.frames)
}

// Top returns the most recent frame and true, or a zero Frame and false
// when the tracker is empty.
func (t *Tracker) Top() (Frame, bool) {
	if t.depth == 0 {
		return Frame{}, false
	}
	return t.frames[t.depth-1], true
}

// Snapshot returns an owned copy of the active frames in call order
// (outermost first). Later pushes and pops do not affect the returned
// slice. A nil Tracker yields a nil snapshot.
func (t *Tracker) Snapshot() []Frame {
	if t == nil || t.depth == 0 {
		return nil
	}
	out := make([]Frame, t.depth)
	copy(out, t.frames[:t.depth])
	return out
}

// Frames iterates the active frames from most recent to outermost,
// yielding each frame with its slot.
func (t *Tracker) Frames() iter.Seq2[Slot, Frame] {
	return func(yield func(Slot, Frame) bool) {
		if t == nil {
			return
		}
		for i := t.depth - 1; i >= 0; i-- {
			if !yield(Slot(i), t.frames[i]) {
				return
			}
		}
	}
}

// Dump writes the active frames to w, most recent first.
func (t *Tracker) Dump(w io.Writer) error {
	return WriteFrames(w, t.Snapshot())
}

// Trace returns the output of [Tracker.Dump] as a string.
func (t *Tracker) Trace() string {
	var sb strings.Builder
	_ = t.Dump(&sb)
	return sb.String()
}

// WriteFrames writes frames (in call order, outermost first) to w as a
// numbered list, most recent first. It is shared by tracker dumps and
// error backtraces so both render identically.
func WriteFrames(w io.Writer, frames []Frame) error {
	for i := len(frames) - 1; i >= 0; i-- {
		if _, err := fmt.Fprintf(w, "  #%-3d %s\n", len(frames)-1-i, frames[i]); err != nil {
			return err
		}
	}
	return nil
}

// OverflowError is the panic value raised when a push would exceed a
// tracker's capacity.
type OverflowError struct {
	Capacity int
	Function string
	Trace    string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("callstack: capacity %d exceeded entering %s\n%s",
		e.Capacity, e.Function, e.Trace)
}

// OrderError is the panic value raised on misuse of push/pop.
type OrderError struct {
	Op     string
	Reason string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("callstack: invalid %s: %s", e.Op, e.Reason)
}

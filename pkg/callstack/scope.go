package callstack

import (
	"context"
	"runtime"
	"time"
)

type trackerKey struct{}

type profileKey struct{}

// WithTracker returns a copy of ctx carrying t. Functions called with the
// returned context push their frames onto t.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// FromContext returns the Tracker carried by ctx, or nil.
func FromContext(ctx context.Context) *Tracker {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(trackerKey{}).(*Tracker)
	return t
}

// WithProfile returns a copy of ctx carrying p. Scopes entered with the
// returned context record their elapsed time into p.
func WithProfile(ctx context.Context, p *Profile) context.Context {
	return context.WithValue(ctx, profileKey{}, p)
}

// ProfileFromContext returns the Profile carried by ctx, or nil.
func ProfileFromContext(ctx context.Context) *Profile {
	if ctx == nil {
		return nil
	}
	p, _ := ctx.Value(profileKey{}).(*Profile)
	return p
}

// Scope is an entered call frame. Exit must be called exactly once, usually
// through defer directly after [Enter].
type Scope struct {
	tracker  *Tracker
	profile  *Profile
	slot     Slot
	function string
	start    time.Time
}

// Enter pushes a frame named function onto the Tracker in ctx. The file
// and address are taken from the caller. Without a Tracker or Profile in
// ctx the returned Scope is inert.
func Enter(ctx context.Context, function string) Scope {
	t := FromContext(ctx)
	p := ProfileFromContext(ctx)
	if t == nil && p == nil {
		return Scope{}
	}

	s := Scope{tracker: t, profile: p, function: function}
	if t != nil {
		pc, file, _, ok := runtime.Caller(1)
		if !ok {
			file = "unknown"
		}
		s.slot = t.Push(function, file, pc)
	}
	if p != nil {
		s.start = time.Now()
	}
	return s
}

// Exit pops the scope's frame and records its elapsed time. Exit on an
// inert Scope does nothing.
func (s Scope) Exit() {
	if s.profile != nil {
		s.profile.Record(s.function, time.Since(s.start))
	}
	if s.tracker != nil {
		s.tracker.Pop(s.slot)
	}
}

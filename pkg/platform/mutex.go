package platform

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// Mutex is a mutual exclusion lock with checked misuse: unlocking an
// unlocked mutex, or using a destroyed one, fails with KindBadOperation
// instead of corrupting state.
type Mutex struct {
	mu        sync.Mutex
	locked    atomic.Bool
	destroyed atomic.Bool
}

// NewMutex creates an unlocked mutex.
func NewMutex(ctx context.Context) (*Mutex, error) {
	defer callstack.Enter(ctx, "platform.NewMutex").Exit()
	return osNewMutex(ctx)
}

// Lock blocks until the mutex is acquired.
func (m *Mutex) Lock(ctx context.Context) error {
	defer callstack.Enter(ctx, "platform.Mutex.Lock").Exit()

	if m.destroyed.Load() {
		return errors.Fail(ctx, errors.KindBadOperation, "lock of destroyed mutex")
	}
	m.mu.Lock()
	// Destroy may have run while this call blocked.
	if m.destroyed.Load() {
		m.mu.Unlock()
		return errors.Fail(ctx, errors.KindBadOperation, "lock of destroyed mutex")
	}
	m.locked.Store(true)
	return nil
}

// TryLock acquires the mutex if it is free and reports whether it did.
func (m *Mutex) TryLock(ctx context.Context) (bool, error) {
	defer callstack.Enter(ctx, "platform.Mutex.TryLock").Exit()

	if m.destroyed.Load() {
		return false, errors.Fail(ctx, errors.KindBadOperation, "lock of destroyed mutex")
	}
	if !m.mu.TryLock() {
		return false, nil
	}
	if m.destroyed.Load() {
		m.mu.Unlock()
		return false, errors.Fail(ctx, errors.KindBadOperation, "lock of destroyed mutex")
	}
	m.locked.Store(true)
	return true, nil
}

// Unlock releases the mutex.
func (m *Mutex) Unlock(ctx context.Context) error {
	defer callstack.Enter(ctx, "platform.Mutex.Unlock").Exit()

	if m.destroyed.Load() {
		return errors.Fail(ctx, errors.KindBadOperation, "unlock of destroyed mutex")
	}
	if !m.locked.CompareAndSwap(true, false) {
		return errors.Fail(ctx, errors.KindBadOperation, "unlock of unlocked mutex")
	}
	m.mu.Unlock()
	return nil
}

// Destroy retires the mutex. Destroying a held mutex fails with
// KindInUse; destroying twice fails with KindBadOperation.
func (m *Mutex) Destroy(ctx context.Context) error {
	defer callstack.Enter(ctx, "platform.Mutex.Destroy").Exit()

	if !m.mu.TryLock() {
		return errors.Fail(ctx, errors.KindInUse, "destroy of locked mutex")
	}
	defer m.mu.Unlock()
	if !m.destroyed.CompareAndSwap(false, true) {
		return errors.Fail(ctx, errors.KindBadOperation, "mutex already destroyed")
	}
	return nil
}

func portableNewMutex(ctx context.Context) (*Mutex, error) {
	defer callstack.Enter(ctx, "portable.newMutex").Exit()
	return &Mutex{}, nil
}

package platform

import (
	"context"
	"sync"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// Library is a dynamically loaded shared library.
type Library struct {
	name   string
	handle uintptr

	mu     sync.Mutex
	closed bool
}

// OpenLibrary loads the shared library name (a path or a name the dynamic
// linker can resolve, such as "libc.so.6"). Backends without a dynamic
// linker fail with KindNotImplemented; an unresolvable library fails with
// KindNoSuchObject.
func OpenLibrary(ctx context.Context, name string) (*Library, error) {
	defer callstack.Enter(ctx, "platform.OpenLibrary").Exit()

	if name == "" {
		return nil, errors.Fail(ctx, errors.KindInvalidParameter, "empty library name")
	}
	handle, err := osOpenLibrary(ctx, name)
	if err != nil {
		return nil, err
	}
	return &Library{name: name, handle: handle}, nil
}

// Name returns the name the library was opened with.
func (l *Library) Name() string {
	return l.name
}

// Symbol returns the address of the exported symbol name.
func (l *Library) Symbol(ctx context.Context, name string) (uintptr, error) {
	defer callstack.Enter(ctx, "platform.Library.Symbol").Exit()

	if name == "" {
		return 0, errors.Fail(ctx, errors.KindInvalidParameter, "empty symbol name")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, errors.Failf(ctx, errors.KindBadOperation, "library %s is closed", l.name)
	}
	return osLibrarySymbol(ctx, l.handle, l.name, name)
}

// Close unloads the library. Addresses obtained from Symbol become
// invalid. Closing twice fails with KindBadOperation.
func (l *Library) Close(ctx context.Context) error {
	defer callstack.Enter(ctx, "platform.Library.Close").Exit()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errors.Failf(ctx, errors.KindBadOperation, "library %s already closed", l.name)
	}
	l.closed = true
	return osCloseLibrary(ctx, l.handle, l.name)
}

//go:build (linux || darwin) && !portable

package platform

import (
	"context"

	"github.com/ebitengine/purego"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// The dl bodies call the system dynamic linker through purego, which
// works with cgo disabled. dlerror text carries no errno, so failures
// are classified here rather than through the native table.

func dlOpenLibrary(ctx context.Context, name string) (uintptr, error) {
	defer callstack.Enter(ctx, "dl.openLibrary").Exit()

	handle, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return 0, errors.Wrapf(ctx, err, errors.KindNoSuchObject, "dlopen %s: %v", name, err)
	}
	return handle, nil
}

func dlLibrarySymbol(ctx context.Context, handle uintptr, library, name string) (uintptr, error) {
	defer callstack.Enter(ctx, "dl.librarySymbol").Exit()

	addr, err := purego.Dlsym(handle, name)
	if err != nil {
		return 0, errors.Wrapf(ctx, err, errors.KindNoSuchObject, "dlsym %s in %s: %v", name, library, err)
	}
	return addr, nil
}

func dlCloseLibrary(ctx context.Context, handle uintptr, library string) error {
	defer callstack.Enter(ctx, "dl.closeLibrary").Exit()

	if err := purego.Dlclose(handle); err != nil {
		return errors.Wrapf(ctx, err, errors.KindBadOperation, "dlclose %s: %v", library, err)
	}
	return nil
}

package platform

import (
	"context"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// The portable backend has no dynamic linker.

func portableOpenLibrary(ctx context.Context, name string) (uintptr, error) {
	defer callstack.Enter(ctx, "portable.openLibrary").Exit()
	return 0, errors.Failf(ctx, errors.KindNotImplemented,
		"loading %s: dynamic libraries are not supported by the %s backend", name, Backend)
}

func portableLibrarySymbol(ctx context.Context, _ uintptr, library, name string) (uintptr, error) {
	defer callstack.Enter(ctx, "portable.librarySymbol").Exit()
	return 0, errors.Failf(ctx, errors.KindNotImplemented,
		"resolving %s in %s: dynamic libraries are not supported by the %s backend", name, library, Backend)
}

func portableCloseLibrary(ctx context.Context, _ uintptr, library string) error {
	defer callstack.Enter(ctx, "portable.closeLibrary").Exit()
	return errors.Failf(ctx, errors.KindNotImplemented,
		"closing %s: dynamic libraries are not supported by the %s backend", library, Backend)
}

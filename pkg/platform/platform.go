// Package platform is the OS-facing surface of the StricklySoft systems
// layer: memory, strings, file handles, directories, dynamic libraries,
// processes, mutexes and process abort.
//
// # Backend dispatch
//
// Every operation is an exported function that enters a call-stack scope
// and calls exactly one unexported backend symbol (osAllocZeroed, osOpen,
// ...). Which file defines those symbols is decided by build constraints,
// once per build:
//
//	linux     GOOS=linux                          backend_linux.go
//	darwin    GOOS=darwin                         backend_darwin.go
//	unix      any other unix GOOS                 backend_unix.go
//	portable  -tags portable, any GOOS            backend_portable.go
//
// A backend either supplies its own body or defers to another backend's
// body with a direct call (the linux backend's allocator is the portable
// allocator, for example). There is no registration table and no runtime
// branch: a target whose backend file lacks a symbol does not compile.
// [Backend] names the selected backend and [Bindings] lists, for
// diagnostics, which body each operation resolves to.
//
// Dynamic library loading ([OpenLibrary]) is an ordinary runtime
// operation exposed through this mechanism; it is unrelated to how the
// backend itself is chosen.
//
// # Errors and tracking
//
// All operations take a context first. The context carries the caller's
// call-stack tracker and profile (see pkg/callstack); failures are
// returned as *errors.Error values whose kind comes from the fixed errno
// table and whose backtrace names the exported operation and the backend
// body that failed.
package platform

import (
	"slices"
)

// Binding records which backend body an abstract operation resolves to in
// this build.
type Binding struct {
	// Op is the abstract operation identifier, e.g. "memory.alloc_zeroed".
	Op string `json:"op"`

	// Backend is the backend whose body runs for Op.
	Backend string `json:"backend"`

	// Deferred is true when the selected backend forwards Op to Backend
	// instead of supplying its own body.
	Deferred bool `json:"deferred"`
}

// Bindings returns the operation bindings compiled into this build, in a
// stable order.
func Bindings() []Binding {
	return slices.Clone(bindings[:])
}

// Lookup returns the binding for op.
func Lookup(op string) (Binding, bool) {
	for _, b := range bindings {
		if b.Op == op {
			return b, true
		}
	}
	return Binding{}, false
}

// Operation identifiers used in [Binding.Op].
const (
	OpAllocZeroed        = "memory.alloc_zeroed"
	OpAllocZeroedAligned = "memory.alloc_zeroed_aligned"
	OpReallocZeroed      = "memory.realloc_zeroed"
	OpFree               = "memory.free"
	OpMemorySet          = "memory.set"
	OpMemoryCopy         = "memory.copy"
	OpMemoryCompare      = "memory.compare"
	OpStringLength       = "string.length"
	OpStringCompare      = "string.compare"
	OpStringCopy         = "string.copy"
	OpStringAppend       = "string.append"
	OpFileOpen           = "file.open"
	OpFileOpenAnonymous  = "file.open_anonymous"
	OpFilePath           = "file.path"
	OpFileSize           = "file.size"
	OpDirectoryList      = "directory.list"
	OpLibraryOpen        = "library.open"
	OpLibrarySymbol      = "library.symbol"
	OpLibraryClose       = "library.close"
	OpProcessSpawn       = "process.spawn"
	OpProcessWait        = "process.wait"
	OpProcessKill        = "process.kill"
	OpMutexNew           = "mutex.new"
	OpAbort              = "process.abort"
)

// allOps lists every operation a backend must bind.
var allOps = []string{
	OpAllocZeroed, OpAllocZeroedAligned, OpReallocZeroed, OpFree,
	OpMemorySet, OpMemoryCopy, OpMemoryCompare,
	OpStringLength, OpStringCompare, OpStringCopy, OpStringAppend,
	OpFileOpen, OpFileOpenAnonymous, OpFilePath, OpFileSize, OpDirectoryList,
	OpLibraryOpen, OpLibrarySymbol, OpLibraryClose,
	OpProcessSpawn, OpProcessWait, OpProcessKill,
	OpMutexNew, OpAbort,
}

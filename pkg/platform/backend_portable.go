//go:build portable

package platform

import "context"

// The portable backend is selected with the "portable" build tag and
// implements every operation on the Go standard library alone. It is the
// body the other backends defer to.

// Backend names the backend compiled into this build.
const Backend = "portable"

var bindings = [...]Binding{
	{Op: OpAllocZeroed, Backend: "portable", Deferred: false},
	{Op: OpAllocZeroedAligned, Backend: "portable", Deferred: false},
	{Op: OpReallocZeroed, Backend: "portable", Deferred: false},
	{Op: OpFree, Backend: "portable", Deferred: false},
	{Op: OpMemorySet, Backend: "portable", Deferred: false},
	{Op: OpMemoryCopy, Backend: "portable", Deferred: false},
	{Op: OpMemoryCompare, Backend: "portable", Deferred: false},
	{Op: OpStringLength, Backend: "portable", Deferred: false},
	{Op: OpStringCompare, Backend: "portable", Deferred: false},
	{Op: OpStringCopy, Backend: "portable", Deferred: false},
	{Op: OpStringAppend, Backend: "portable", Deferred: false},
	{Op: OpFileOpen, Backend: "portable", Deferred: false},
	{Op: OpFileOpenAnonymous, Backend: "portable", Deferred: false},
	{Op: OpFilePath, Backend: "portable", Deferred: false},
	{Op: OpFileSize, Backend: "portable", Deferred: false},
	{Op: OpDirectoryList, Backend: "portable", Deferred: false},
	{Op: OpLibraryOpen, Backend: "portable", Deferred: false},
	{Op: OpLibrarySymbol, Backend: "portable", Deferred: false},
	{Op: OpLibraryClose, Backend: "portable", Deferred: false},
	{Op: OpProcessSpawn, Backend: "portable", Deferred: false},
	{Op: OpProcessWait, Backend: "portable", Deferred: false},
	{Op: OpProcessKill, Backend: "portable", Deferred: false},
	{Op: OpMutexNew, Backend: "portable", Deferred: false},
	{Op: OpAbort, Backend: "portable", Deferred: false},
}

func osAllocZeroed(ctx context.Context, n int) ([]byte, error) {
	return portableAllocZeroed(ctx, n)
}

func osAllocZeroedAligned(ctx context.Context, n, alignment int) ([]byte, error) {
	return portableAllocZeroedAligned(ctx, n, alignment)
}

func osReallocZeroed(ctx context.Context, buf []byte, oldN, newN int) ([]byte, error) {
	return portableReallocZeroed(ctx, buf, oldN, newN)
}

func osFree(ctx context.Context, buf []byte) {
	portableFree(ctx, buf)
}

func osMemorySet(ctx context.Context, dst []byte, value byte) {
	portableMemorySet(ctx, dst, value)
}

func osMemoryCopy(ctx context.Context, dst, src []byte) {
	portableMemoryCopy(ctx, dst, src)
}

func osMemoryCompare(ctx context.Context, a, b []byte) bool {
	return portableMemoryCompare(ctx, a, b)
}

func osStringLength(ctx context.Context, buf []byte) int {
	return portableStringLength(ctx, buf)
}

func osStringCompare(ctx context.Context, a, b string) int {
	return portableStringCompare(ctx, a, b)
}

func osStringCopy(ctx context.Context, dst []byte, src string) int {
	return portableStringCopy(ctx, dst, src)
}

func osStringAppend(ctx context.Context, dst []byte, at int, src string) int {
	return portableStringAppend(ctx, dst, at, src)
}

func osOpen(ctx context.Context, path string, mode OpenMode) (*File, error) {
	return portableOpen(ctx, path, mode)
}

func osOpenAnonymous(ctx context.Context) (*File, error) {
	return portableOpenAnonymous(ctx)
}

func osFilePath(ctx context.Context, f *File) (string, error) {
	return portableFilePath(ctx, f)
}

func osFileSize(ctx context.Context, f *File) (int64, error) {
	return portableFileSize(ctx, f)
}

func osListDirectory(ctx context.Context, path string, fn func(DirEntry) error) error {
	return portableListDirectory(ctx, path, fn)
}

func osOpenLibrary(ctx context.Context, name string) (uintptr, error) {
	return portableOpenLibrary(ctx, name)
}

func osLibrarySymbol(ctx context.Context, handle uintptr, library, name string) (uintptr, error) {
	return portableLibrarySymbol(ctx, handle, library, name)
}

func osCloseLibrary(ctx context.Context, handle uintptr, library string) error {
	return portableCloseLibrary(ctx, handle, library)
}

func osSpawn(ctx context.Context, p *Process, c *Command) error {
	return portableSpawn(ctx, p, c)
}

func osWait(ctx context.Context, p *Process) (int, bool, error) {
	return portableWait(ctx, p)
}

func osKill(ctx context.Context, p *Process) error {
	return portableKill(ctx, p)
}

func osNewMutex(ctx context.Context) (*Mutex, error) {
	return portableNewMutex(ctx)
}

func osAbort(ctx context.Context, reason error) {
	portableAbort(ctx, reason)
}

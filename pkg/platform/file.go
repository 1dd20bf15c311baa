package platform

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// OpenMode selects how [Open] opens a file. Modes combine with bitwise OR;
// exactly one of ModeRead, ModeWrite or ModeReadWrite must be present.
type OpenMode uint32

const (
	// ModeRead opens the file for reading.
	ModeRead OpenMode = 1 << iota
	// ModeWrite opens the file for writing.
	ModeWrite
	// ModeReadWrite opens the file for reading and writing.
	ModeReadWrite
	// ModeCreate creates the file if it does not exist.
	ModeCreate
	// ModeExclusive, with ModeCreate, fails if the file exists.
	ModeExclusive
	// ModeTruncate truncates an existing file on open.
	ModeTruncate
	// ModeAppend positions every write at the end of the file.
	ModeAppend
)

const accessModes = ModeRead | ModeWrite | ModeReadWrite

// flags translates m to os.OpenFile flags.
func (m OpenMode) flags() int {
	var f int
	switch m & accessModes {
	case ModeWrite:
		f = os.O_WRONLY
	case ModeReadWrite:
		f = os.O_RDWR
	default:
		f = os.O_RDONLY
	}
	if m&ModeCreate != 0 {
		f |= os.O_CREATE
	}
	if m&ModeExclusive != 0 {
		f |= os.O_EXCL
	}
	if m&ModeTruncate != 0 {
		f |= os.O_TRUNC
	}
	if m&ModeAppend != 0 {
		f |= os.O_APPEND
	}
	return f
}

// valid reports whether m names exactly one access mode.
func (m OpenMode) valid() bool {
	switch m & accessModes {
	case ModeRead, ModeWrite, ModeReadWrite:
		return true
	default:
		return false
	}
}

// File is an open OS file handle. A File is safe for use by one goroutine
// at a time; Close may be called concurrently with other methods.
type File struct {
	f         *os.File
	name      string
	anonymous bool

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// Open opens the file at path with the given mode. Created files get
// permission 0644 before the umask.
func Open(ctx context.Context, path string, mode OpenMode) (*File, error) {
	defer callstack.Enter(ctx, "platform.Open").Exit()

	if path == "" {
		return nil, errors.Fail(ctx, errors.KindInvalidParameter, "empty path")
	}
	if strings.IndexByte(path, 0) >= 0 {
		return nil, errors.Failf(ctx, errors.KindBadContent, "path %q contains NUL", path)
	}
	if !mode.valid() {
		return nil, errors.Failf(ctx, errors.KindInvalidParameter,
			"open mode %#x has no single access mode", uint32(mode))
	}
	return osOpen(ctx, path, mode)
}

// OpenAnonymous returns a read-write file with no name in the file
// system. Its storage is released when the handle is closed. Anonymous
// files are the usual sink for a spawned process's output.
func OpenAnonymous(ctx context.Context) (*File, error) {
	defer callstack.Enter(ctx, "platform.OpenAnonymous").Exit()
	return osOpenAnonymous(ctx)
}

// Name returns the name the file was opened with. For anonymous files the
// name is informational only.
func (f *File) Name() string {
	return f.name
}

// Anonymous reports whether f was created by [OpenAnonymous].
func (f *File) Anonymous() bool {
	return f.anonymous
}

// Fd returns the OS descriptor.
func (f *File) Fd() uintptr {
	return f.f.Fd()
}

// Path resolves the handle to an absolute path. Anonymous files have no
// path and fail with KindNoSuchObject.
func (f *File) Path(ctx context.Context) (string, error) {
	defer callstack.Enter(ctx, "platform.File.Path").Exit()

	if err := f.usable(ctx); err != nil {
		return "", err
	}
	if f.anonymous {
		return "", errors.Failf(ctx, errors.KindNoSuchObject,
			"anonymous file %s has no path", f.name)
	}
	return osFilePath(ctx, f)
}

// Size returns the current size of the file in bytes.
func (f *File) Size(ctx context.Context) (int64, error) {
	defer callstack.Enter(ctx, "platform.File.Size").Exit()

	if err := f.usable(ctx); err != nil {
		return 0, err
	}
	return osFileSize(ctx, f)
}

// Read reads up to len(p) bytes from the current offset. At end of file
// Read returns 0 and io.EOF unwrapped, like an io.Reader.
func (f *File) Read(ctx context.Context, p []byte) (int, error) {
	defer callstack.Enter(ctx, "platform.File.Read").Exit()

	if err := f.usable(ctx); err != nil {
		return 0, err
	}
	n, err := f.f.Read(p)
	if err == io.EOF {
		return n, io.EOF
	}
	if err != nil {
		return n, errors.WrapNative(ctx, err, "read %s", f.name)
	}
	return n, nil
}

// Write writes p at the current offset.
func (f *File) Write(ctx context.Context, p []byte) (int, error) {
	defer callstack.Enter(ctx, "platform.File.Write").Exit()

	if err := f.usable(ctx); err != nil {
		return 0, err
	}
	n, err := f.f.Write(p)
	if err != nil {
		return n, errors.WrapNative(ctx, err, "write %s", f.name)
	}
	return n, nil
}

// Seek sets the offset for the next Read or Write, interpreted according
// to whence (io.SeekStart, io.SeekCurrent, io.SeekEnd).
func (f *File) Seek(ctx context.Context, offset int64, whence int) (int64, error) {
	defer callstack.Enter(ctx, "platform.File.Seek").Exit()

	if err := f.usable(ctx); err != nil {
		return 0, err
	}
	pos, err := f.f.Seek(offset, whence)
	if err != nil {
		return 0, errors.WrapNative(ctx, err, "seek %s", f.name)
	}
	return pos, nil
}

// Contents reads the whole file from offset zero without moving the
// current offset.
func (f *File) Contents(ctx context.Context) ([]byte, error) {
	defer callstack.Enter(ctx, "platform.File.Contents").Exit()

	size, err := f.Size(ctx)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	n, err := f.f.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return nil, errors.WrapNative(ctx, err, "read %s", f.name)
	}
	return buf[:n], nil
}

// Close releases the handle. Closing twice fails with KindBadOperation.
func (f *File) Close(ctx context.Context) error {
	defer callstack.Enter(ctx, "platform.File.Close").Exit()

	first := false
	f.closeOnce.Do(func() {
		first = true
		f.closed.Store(true)
		if err := f.f.Close(); err != nil {
			f.closeErr = errors.WrapNative(ctx, err, "close %s", f.name)
		}
	})
	if !first {
		return errors.Failf(ctx, errors.KindBadOperation, "file %s already closed", f.name)
	}
	return f.closeErr
}

// osFile exposes the underlying handle to process spawning.
func (f *File) osFile() *os.File {
	return f.f
}

func (f *File) usable(ctx context.Context) error {
	if f == nil || f.f == nil {
		return errors.Fail(ctx, errors.KindInvalidControl, "nil file handle")
	}
	if f.closed.Load() {
		return errors.Failf(ctx, errors.KindBadOperation, "file %s is closed", f.name)
	}
	return nil
}

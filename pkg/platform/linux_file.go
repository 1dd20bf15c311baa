//go:build linux && !portable

package platform

import (
	"context"
	"os"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// linuxOpenAnonymous backs the handle with memfd_create, which never
// touches a file system.
func linuxOpenAnonymous(ctx context.Context) (*File, error) {
	defer callstack.Enter(ctx, "linux.openAnonymous").Exit()

	name := anonymousName()
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return nil, errors.WrapNative(ctx, err, "memfd_create %s", name)
	}
	return &File{f: os.NewFile(uintptr(fd), "memfd:"+name), name: name, anonymous: true}, nil
}

// linuxFilePath asks the kernel which path the descriptor refers to, so
// renames after open are reflected.
func linuxFilePath(ctx context.Context, f *File) (string, error) {
	defer callstack.Enter(ctx, "linux.filePath").Exit()

	link := "/proc/self/fd/" + strconv.Itoa(int(f.Fd()))
	p, err := os.Readlink(link)
	if err != nil {
		return "", errors.WrapNative(ctx, err, "readlink %s", link)
	}
	return p, nil
}

// linuxFileSize stats the descriptor directly.
func linuxFileSize(ctx context.Context, f *File) (int64, error) {
	defer callstack.Enter(ctx, "linux.fileSize").Exit()

	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return 0, errors.WrapNative(ctx, err, "fstat %s", f.name)
	}
	return st.Size, nil
}

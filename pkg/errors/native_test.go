//go:build unix

package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestKindFromErrno_DocumentedTable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		code syscall.Errno
		want Kind
	}{
		{unix.EPERM, KindPermission},
		{unix.EACCES, KindPermission},
		{unix.EINVAL, KindInvalidParameter},
		{unix.EIO, KindIO},
		{unix.ENAMETOOLONG, KindTooLong},
		{unix.ENOENT, KindNoSuchObject},
		{unix.ESRCH, KindNoSuchObject},
		{unix.ENOMEM, KindOutOfMemory},
		{unix.ENOTDIR, KindWrongObjectType},
		{unix.EISDIR, KindWrongObjectType},
		{unix.EEXIST, KindAlreadyExists},
		{unix.ENOSPC, KindOutOfSpace},
		{unix.EMFILE, KindOutOfHandles},
		{unix.ENFILE, KindOutOfHandles},
		{unix.EILSEQ, KindBadContent},
		{unix.ESPIPE, KindBadOperation},
		{unix.EBUSY, KindInUse},
		{unix.ENOSYS, KindNotImplemented},
		{unix.EFAULT, KindOutOfBounds},
		{unix.EBADF, KindInvalidControl},
	}
	for _, tt := range tests {
		t.Run(tt.code.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, KindFromErrno(tt.code))
		})
	}
}

func TestKindFromErrno_TableIsTotal(t *testing.T) {
	t.Parallel()
	table := NativeTable()
	assert.NotEmpty(t, table)
	for code, kind := range table {
		assert.Equal(t, kind, KindFromErrno(code))
		assert.True(t, kind.Valid())
	}
}

func TestKindFromErrno_UnmappedIsUnknown(t *testing.T) {
	t.Parallel()
	for _, code := range []syscall.Errno{0, unix.EINTR, unix.ECHILD, syscall.Errno(9999)} {
		if _, mapped := NativeTable()[code]; mapped {
			continue
		}
		assert.Equal(t, KindUnknown, KindFromErrno(code), "errno %d", code)
	}
}

func TestNativeTable_ReturnsCopy(t *testing.T) {
	t.Parallel()
	table := NativeTable()
	table[unix.ENOENT] = KindIO
	assert.Equal(t, KindNoSuchObject, KindFromErrno(unix.ENOENT))
}

func TestKindFromError(t *testing.T) {
	t.Parallel()
	_, statErr := os.Stat("/definitely/not/here")
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"bare errno", unix.EACCES, KindPermission},
		{"path error", statErr, KindNoSuchObject},
		{"wrapped errno", fmt.Errorf("ctx: %w", unix.EEXIST), KindAlreadyExists},
		{"fs not exist sentinel", fs.ErrNotExist, KindNoSuchObject},
		{"fs exist sentinel", fs.ErrExist, KindAlreadyExists},
		{"fs permission sentinel", fs.ErrPermission, KindPermission},
		{"fs closed sentinel", os.ErrClosed, KindBadOperation},
		{"message text is ignored", errors.New("permission denied"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindFromError(tt.err))
		})
	}
}

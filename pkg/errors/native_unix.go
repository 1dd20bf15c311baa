//go:build unix

package errors

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// errnoKinds is the fixed errno table for unix platforms. Only constants
// that are distinct on every unix GOOS appear here (EAGAIN/EWOULDBLOCK and
// ENOTSUP/EOPNOTSUPP alias on some systems).
var errnoKinds = map[syscall.Errno]Kind{
	unix.EPERM:        KindPermission,
	unix.EACCES:       KindPermission,
	unix.EROFS:        KindPermission,
	unix.EINVAL:       KindInvalidParameter,
	unix.EIO:          KindIO,
	unix.ENAMETOOLONG: KindTooLong,
	unix.E2BIG:        KindTooLong,
	unix.EOVERFLOW:    KindTooLong,
	unix.ENOENT:       KindNoSuchObject,
	unix.ESRCH:        KindNoSuchObject,
	unix.ENXIO:        KindNoSuchObject,
	unix.ENODEV:       KindNoSuchObject,
	unix.ENOMEM:       KindOutOfMemory,
	unix.ENOTDIR:      KindWrongObjectType,
	unix.EISDIR:       KindWrongObjectType,
	unix.ENOEXEC:      KindWrongObjectType,
	unix.ENOTTY:       KindWrongObjectType,
	unix.EEXIST:       KindAlreadyExists,
	unix.ENOSPC:       KindOutOfSpace,
	unix.EDQUOT:       KindOutOfSpace,
	unix.EFBIG:        KindOutOfSpace,
	unix.EMFILE:       KindOutOfHandles,
	unix.ENFILE:       KindOutOfHandles,
	unix.EILSEQ:       KindBadContent,
	unix.ESPIPE:       KindBadOperation,
	unix.EXDEV:        KindBadOperation,
	unix.ENOTEMPTY:    KindBadOperation,
	unix.EOPNOTSUPP:   KindBadOperation,
	unix.EBUSY:        KindInUse,
	unix.ETXTBSY:      KindInUse,
	unix.ENOSYS:       KindNotImplemented,
	unix.EFAULT:       KindOutOfBounds,
	unix.ERANGE:       KindOutOfBounds,
	unix.EBADF:        KindInvalidControl,
}

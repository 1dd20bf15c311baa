//go:build !unix

package errors

import "syscall"

// errnoKinds is empty off unix: every native code maps to KindUnknown.
var errnoKinds = map[syscall.Errno]Kind{}

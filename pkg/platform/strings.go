package platform

import (
	"context"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// The string operations work on NUL-terminated byte buffers, the layout
// native interfaces expect. A buffer without a NUL holds a string that
// fills the whole buffer.

// StringLength returns the number of bytes in buf before the first NUL.
func StringLength(ctx context.Context, buf []byte) int {
	defer callstack.Enter(ctx, "platform.StringLength").Exit()
	return osStringLength(ctx, buf)
}

// StringCompare compares a and b lexically and returns -1, 0 or +1.
func StringCompare(ctx context.Context, a, b string) int {
	defer callstack.Enter(ctx, "platform.StringCompare").Exit()
	return osStringCompare(ctx, a, b)
}

// StringCopy writes src followed by a NUL into dst and returns len(src).
// dst must hold len(src)+1 bytes.
func StringCopy(ctx context.Context, dst []byte, src string) (int, error) {
	defer callstack.Enter(ctx, "platform.StringCopy").Exit()

	if len(dst) < len(src)+1 {
		return 0, errors.Failf(ctx, errors.KindTooLong,
			"string of %d bytes does not fit buffer of %d", len(src), len(dst))
	}
	return osStringCopy(ctx, dst, src), nil
}

// StringAppend appends src to the NUL-terminated string already in dst
// and returns the new length. dst must have room for the result and its
// terminator.
func StringAppend(ctx context.Context, dst []byte, src string) (int, error) {
	defer callstack.Enter(ctx, "platform.StringAppend").Exit()

	cur := osStringLength(ctx, dst)
	if len(dst) < cur+len(src)+1 {
		return 0, errors.Failf(ctx, errors.KindTooLong,
			"appending %d bytes to %d does not fit buffer of %d", len(src), cur, len(dst))
	}
	return osStringAppend(ctx, dst, cur, src), nil
}

package platform

import (
	"bytes"
	"context"
	"strings"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
)

func portableStringLength(ctx context.Context, buf []byte) int {
	defer callstack.Enter(ctx, "portable.stringLength").Exit()
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return i
	}
	return len(buf)
}

func portableStringCompare(ctx context.Context, a, b string) int {
	defer callstack.Enter(ctx, "portable.stringCompare").Exit()
	return strings.Compare(a, b)
}

func portableStringCopy(ctx context.Context, dst []byte, src string) int {
	defer callstack.Enter(ctx, "portable.stringCopy").Exit()
	n := copy(dst, src)
	dst[n] = 0
	return n
}

func portableStringAppend(ctx context.Context, dst []byte, at int, src string) int {
	defer callstack.Enter(ctx, "portable.stringAppend").Exit()
	n := copy(dst[at:], src)
	dst[at+n] = 0
	return at + n
}

package platform

import (
	"bytes"
	"context"
	"unsafe"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// The portable memory bodies allocate from the Go heap. The heap does
// not move objects, so an aligned offset computed once stays aligned.

func portableAllocZeroed(ctx context.Context, n int) (buf []byte, err error) {
	defer callstack.Enter(ctx, "portable.allocZeroed").Exit()
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, errors.Failf(ctx, errors.KindOutOfMemory,
				"allocating %d bytes: %v", n, r)
		}
	}()
	return make([]byte, n), nil
}

func portableAllocZeroedAligned(ctx context.Context, n, alignment int) ([]byte, error) {
	defer callstack.Enter(ctx, "portable.allocZeroedAligned").Exit()

	if n == 0 {
		return []byte{}, nil
	}
	raw, err := portableAllocZeroed(ctx, n+alignment-1)
	if err != nil {
		return nil, err
	}
	addr := uintptr(unsafe.Pointer(&raw[0]))
	off := int((uintptr(alignment) - addr%uintptr(alignment)) % uintptr(alignment))
	return raw[off : off+n : off+n], nil
}

func portableReallocZeroed(ctx context.Context, buf []byte, oldN, newN int) ([]byte, error) {
	defer callstack.Enter(ctx, "portable.reallocZeroed").Exit()

	if newN <= oldN {
		return buf[:newN:newN], nil
	}
	if cap(buf) >= newN {
		out := buf[:newN]
		clear(out[oldN:])
		return out, nil
	}
	out, err := portableAllocZeroed(ctx, newN)
	if err != nil {
		return nil, err
	}
	copy(out, buf[:oldN])
	return out, nil
}

// portableFree scrubs the buffer; the collector reclaims the storage.
func portableFree(ctx context.Context, buf []byte) {
	defer callstack.Enter(ctx, "portable.free").Exit()
	clear(buf)
}

func portableMemorySet(ctx context.Context, dst []byte, value byte) {
	defer callstack.Enter(ctx, "portable.memorySet").Exit()
	for i := range dst {
		dst[i] = value
	}
}

func portableMemoryCopy(ctx context.Context, dst, src []byte) {
	defer callstack.Enter(ctx, "portable.memoryCopy").Exit()
	copy(dst, src)
}

func portableMemoryCompare(ctx context.Context, a, b []byte) bool {
	defer callstack.Enter(ctx, "portable.memoryCompare").Exit()
	return bytes.Equal(a, b)
}

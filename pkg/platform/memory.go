package platform

import (
	"context"
	"math"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// maxAllocation bounds a single allocation request: 1 TiB on 64-bit
// targets, 1 GiB on 32-bit ones. Larger requests fail with
// KindOutOfMemory instead of reaching the runtime allocator.
const maxAllocation = 1 << (30 + 10*(^uint(0)>>63))

// byteCount multiplies count by size, rejecting negative inputs and
// products that overflow or exceed maxAllocation.
func byteCount(ctx context.Context, count, size int) (int, error) {
	if count < 0 || size < 0 {
		return 0, errors.Failf(ctx, errors.KindInvalidParameter,
			"negative allocation request: %d x %d", count, size)
	}
	if size != 0 && count > math.MaxInt/size {
		return 0, errors.Failf(ctx, errors.KindOutOfMemory,
			"allocation of %d x %d bytes overflows", count, size)
	}
	n := count * size
	if n > maxAllocation {
		return 0, errors.Failf(ctx, errors.KindOutOfMemory,
			"allocation of %d bytes exceeds limit of %d", n, maxAllocation)
	}
	return n, nil
}

// AllocZeroed returns a buffer of count*size bytes, all zero.
func AllocZeroed(ctx context.Context, count, size int) ([]byte, error) {
	defer callstack.Enter(ctx, "platform.AllocZeroed").Exit()

	n, err := byteCount(ctx, count, size)
	if err != nil {
		return nil, err
	}
	return osAllocZeroed(ctx, n)
}

// AllocZeroedAligned returns a zero-filled buffer of count*size bytes
// whose first byte sits at an address that is a multiple of alignment.
// alignment must be a power of two.
func AllocZeroedAligned(ctx context.Context, count, size, alignment int) ([]byte, error) {
	defer callstack.Enter(ctx, "platform.AllocZeroedAligned").Exit()

	if alignment <= 0 || alignment&(alignment-1) != 0 {
		return nil, errors.Failf(ctx, errors.KindBadAlignment,
			"alignment %d is not a power of two", alignment)
	}
	n, err := byteCount(ctx, count, size)
	if err != nil {
		return nil, err
	}
	return osAllocZeroedAligned(ctx, n, alignment)
}

// ReallocZeroed resizes buf from oldCount*size to newCount*size bytes.
// The first min(old, new) bytes are preserved and any growth is zero
// filled. Shrinking never touches bytes beyond the new length. The
// returned buffer may or may not share storage with buf; callers must use
// the returned slice only.
func ReallocZeroed(ctx context.Context, buf []byte, oldCount, newCount, size int) ([]byte, error) {
	defer callstack.Enter(ctx, "platform.ReallocZeroed").Exit()

	oldN, err := byteCount(ctx, oldCount, size)
	if err != nil {
		return nil, err
	}
	if oldN > len(buf) {
		return nil, errors.Failf(ctx, errors.KindOutOfBounds,
			"old size %d exceeds buffer length %d", oldN, len(buf))
	}
	newN, err := byteCount(ctx, newCount, size)
	if err != nil {
		return nil, err
	}
	return osReallocZeroed(ctx, buf, oldN, newN)
}

// Free releases the buffer held in *slot and sets *slot to nil. Freeing
// an empty slot fails with KindBadOperation.
func Free(ctx context.Context, slot *[]byte) error {
	defer callstack.Enter(ctx, "platform.Free").Exit()

	if slot == nil {
		return errors.Fail(ctx, errors.KindInvalidParameter, "nil slot")
	}
	if *slot == nil {
		return errors.Fail(ctx, errors.KindBadOperation, "buffer already freed")
	}
	osFree(ctx, *slot)
	*slot = nil
	return nil
}

// Set fills dst with value.
func Set(ctx context.Context, dst []byte, value byte) {
	defer callstack.Enter(ctx, "platform.Set").Exit()
	osMemorySet(ctx, dst, value)
}

// Copy copies all of src into the start of dst. dst must be at least as
// long as src.
func Copy(ctx context.Context, dst, src []byte) error {
	defer callstack.Enter(ctx, "platform.Copy").Exit()

	if len(dst) < len(src) {
		return errors.Failf(ctx, errors.KindTooShort,
			"destination holds %d bytes, source has %d", len(dst), len(src))
	}
	osMemoryCopy(ctx, dst, src)
	return nil
}

// Compare reports whether the first len(want) bytes of got equal want.
func Compare(ctx context.Context, want, got []byte) (bool, error) {
	defer callstack.Enter(ctx, "platform.Compare").Exit()

	if len(got) < len(want) {
		return false, errors.Failf(ctx, errors.KindTooShort,
			"compared buffer holds %d bytes, need %d", len(got), len(want))
	}
	return osMemoryCompare(ctx, want, got[:len(want)]), nil
}

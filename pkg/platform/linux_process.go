//go:build linux && !portable

package platform

import (
	"context"

	"golang.org/x/sys/unix"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// linuxWait waits for the child to exit without reaping it, marks the
// process as reaping and only then reaps. A Kill that starts after the
// mark is refused; one that holds the state lock across the mark still
// targets an unreaped zombie, whose pid cannot be reused.
func linuxWait(ctx context.Context, p *Process) (int, bool, error) {
	defer callstack.Enter(ctx, "linux.wait").Exit()

	if err := awaitExit(ctx, p); err != nil {
		return -1, false, err
	}
	p.markReaping()
	return portableWait(ctx, p)
}

// awaitExit blocks until the child is waitable. WNOWAIT leaves it
// unreaped.
func awaitExit(ctx context.Context, p *Process) error {
	var info unix.Siginfo
	for {
		err := unix.Waitid(unix.P_PID, p.pid, &info, unix.WEXITED|unix.WNOWAIT, nil)
		switch err {
		case nil:
			return nil
		case unix.EINTR:
			continue
		default:
			return errors.WrapNative(ctx, err, "wait for pid %d", p.pid)
		}
	}
}

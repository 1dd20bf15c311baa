//go:build unix && !portable

package platform

import (
	"context"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// unixSpawn starts the child as the leader of a new process group so that
// unixKill reaches the whole tree it forks.
func unixSpawn(ctx context.Context, p *Process, c *Command) error {
	defer callstack.Enter(ctx, "unix.spawn").Exit()

	cmd := buildCmd(c)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return startCmd(ctx, p, cmd)
}

// unixKill sends SIGKILL to the child's process group.
func unixKill(ctx context.Context, p *Process) error {
	defer callstack.Enter(ctx, "unix.kill").Exit()

	if err := unix.Kill(-p.pid, unix.SIGKILL); err != nil {
		if err == unix.ESRCH {
			return errors.Failf(ctx, errors.KindBadOperation, "process %d already exited", p.pid)
		}
		return errors.WrapNative(ctx, err, "kill process group %d", p.pid)
	}
	return nil
}

package platform

import (
	"context"
	"os"
	"os/exec"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

func portableSpawn(ctx context.Context, p *Process, c *Command) error {
	defer callstack.Enter(ctx, "portable.spawn").Exit()
	return startCmd(ctx, p, buildCmd(c))
}

// portableWait reaps the process. signaled reports termination by a
// signal, in which case code is -1.
func portableWait(ctx context.Context, p *Process) (code int, signaled bool, err error) {
	defer callstack.Enter(ctx, "portable.wait").Exit()

	werr := p.cmd.Wait()
	var exitErr *exec.ExitError
	if werr != nil && !errors.As(werr, &exitErr) {
		return -1, false, errors.WrapNative(ctx, werr, "wait for pid %d", p.pid)
	}
	state := p.cmd.ProcessState
	return state.ExitCode(), !state.Exited(), nil
}

func portableKill(ctx context.Context, p *Process) error {
	defer callstack.Enter(ctx, "portable.kill").Exit()

	if err := p.cmd.Process.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return errors.Failf(ctx, errors.KindBadOperation, "process %d already exited", p.pid)
		}
		return errors.WrapNative(ctx, err, "kill pid %d", p.pid)
	}
	return nil
}

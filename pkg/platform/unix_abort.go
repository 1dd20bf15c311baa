//go:build unix && !portable

package platform

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"golang.org/x/sys/unix"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
)

// unixAbort raises SIGABRT against the process. Any signal.Notify
// registration is dropped first so the runtime handles the signal: it
// prints every goroutine and dies from the default disposition.
func unixAbort(ctx context.Context, _ error) {
	defer callstack.Enter(ctx, "unix.abort").Exit()

	debug.SetTraceback("crash")
	signal.Reset(unix.SIGABRT)
	_ = unix.Kill(unix.Getpid(), unix.SIGABRT)
	// Delivery is asynchronous.
	time.Sleep(time.Second)
	os.Exit(2)
}

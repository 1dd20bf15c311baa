//go:build unix

package errors

import (
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// crash terminates the process with SIGABRT. The runtime prints every
// goroutine and re-raises the signal with the default disposition, so
// the exit is recorded as a crash. A deferred recover cannot intercept it.
func crash(error) {
	debug.SetTraceback("crash")
	signal.Reset(syscall.SIGABRT)
	_ = unix.Kill(unix.Getpid(), unix.SIGABRT)
	// Delivery is asynchronous.
	time.Sleep(time.Second)
	os.Exit(2)
}

//go:build !unix

package errors

import (
	"os"
	"runtime/debug"
)

// crash prints the calling goroutine's stack and exits with status 2,
// the status the runtime uses for a fatal panic.
func crash(error) {
	_, _ = os.Stderr.Write(debug.Stack())
	os.Exit(2)
}

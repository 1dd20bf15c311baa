package platform

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/diag"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

func init() {
	errors.SetAbortHandler(func(reason error) {
		osAbort(context.Background(), reason)
	})
}

// Abort reports reason together with the call chain tracked in ctx at
// [diag.SeverityFatal] and terminates the process abnormally. Abort does
// not return and cannot be recovered from.
func Abort(ctx context.Context, reason string) {
	defer callstack.Enter(ctx, "platform.Abort").Exit()

	err := errors.Fail(ctx, errors.KindUnknown, reason)
	errors.Print(ctx, nil, "abort", err, diag.SeverityFatal)
	osAbort(ctx, err)
}

// portableAbort prints the calling goroutine's stack and exits with
// status 2.
func portableAbort(ctx context.Context, _ error) {
	defer callstack.Enter(ctx, "portable.abort").Exit()
	_, _ = os.Stderr.Write(debug.Stack())
	os.Exit(2)
}

package errors

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StricklySoft/stricklysoft-sys/pkg/diag"
)

func TestPrint_SystemError(t *testing.T) {
	t.Parallel()
	var out, errOut bytes.Buffer
	logger := diag.New(diag.HandlerOptions{Stdout: &out, Stderr: &errOut})

	ctx, tr := trackedContext(4)
	tr.Push("main.run", "main.go", 1)
	err := Fail(ctx, KindNoSuchObject, "library libfoo.so")

	Print(ctx, logger, "probe", err, diag.SeverityError)

	assert.Empty(t, out.String())
	got := errOut.String()
	assert.Contains(t, got, "[ERROR] probe: no_such_object (no such object exists): library libfoo.so")
	assert.Contains(t, got, "backtrace:")
	assert.Contains(t, got, "main.run (main.go)")
	assert.Contains(t, got, "kind=no_such_object")
}

func TestPrint_BelowThresholdGoesToStdout(t *testing.T) {
	t.Parallel()
	var out, errOut bytes.Buffer
	logger := diag.New(diag.HandlerOptions{Stdout: &out, Stderr: &errOut})

	Print(context.Background(), logger, "retry", errors.New("interrupted"), diag.SeverityInfo)

	assert.Empty(t, errOut.String())
	assert.Contains(t, out.String(), "[INFO] retry: interrupted")
}

func TestPrint_NilIsSilent(t *testing.T) {
	t.Parallel()
	var out, errOut bytes.Buffer
	logger := diag.New(diag.HandlerOptions{Stdout: &out, Stderr: &errOut})

	Print(context.Background(), logger, "none", nil, diag.SeverityError)

	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestFatal_PrintsAndAborts(t *testing.T) {
	var errOut bytes.Buffer
	restoreLog := diag.SetDefault(diag.New(diag.HandlerOptions{Stderr: &errOut, Stdout: &bytes.Buffer{}}))
	defer restoreLog()

	var aborted error
	restore := SetAbortHandler(func(reason error) { aborted = reason })
	defer restore()

	err := Fail(context.Background(), KindOutOfMemory, "heap exhausted")
	Fatal(context.Background(), "main", err)

	require.Same(t, err, aborted)
	assert.Contains(t, errOut.String(), "[FATAL] main: out_of_memory")
}

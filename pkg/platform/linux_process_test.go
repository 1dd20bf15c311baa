//go:build linux && !portable

package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StricklySoft/stricklysoft-sys/internal/testutil"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

func TestKill_RefusedOnceReaping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	proc, err := command([]string{"true"}).Spawn(ctx)
	require.NoError(t, err)

	require.NoError(t, awaitExit(ctx, proc))
	proc.markReaping()
	assert.Equal(t, ProcessRunning, proc.State())
	testutil.RequireKind(t, proc.Kill(ctx), errors.KindBadOperation)

	code, err := proc.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, ProcessExited, proc.State())
}

func TestWait_LeavesChildForReap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	proc, err := command([]string{"true"}).Spawn(ctx)
	require.NoError(t, err)

	// A second WNOWAIT wait succeeds only if the first left the child
	// unreaped.
	require.NoError(t, awaitExit(ctx, proc))
	require.NoError(t, awaitExit(ctx, proc))

	b, ok := Lookup(OpProcessWait)
	require.True(t, ok)
	assert.Equal(t, "linux", b.Backend)

	_, err = proc.Wait(ctx)
	require.NoError(t, err)
}

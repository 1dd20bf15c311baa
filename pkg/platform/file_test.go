package platform

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StricklySoft/stricklysoft-sys/internal/testutil"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// ===========================================================================
// Open Tests
// ===========================================================================

func TestOpen_ReadExisting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := testutil.TempFile(t, "data.txt", "payload")

	f, err := Open(ctx, path, ModeRead)
	require.NoError(t, err)
	defer f.Close(ctx)

	buf := make([]byte, 16)
	n, err := f.Read(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(buf[:n]))

	_, err = f.Read(ctx, buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpen_CreateWriteSeek(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "new.bin")

	f, err := Open(ctx, path, ModeReadWrite|ModeCreate|ModeExclusive)
	require.NoError(t, err)
	defer f.Close(ctx)

	n, err := f.Write(ctx, []byte("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	size, err := f.Size(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 10, size)

	pos, err := f.Seek(ctx, 4, io.SeekStart)
	require.NoError(t, err)
	assert.EqualValues(t, 4, pos)

	buf := make([]byte, 3)
	_, err = f.Read(ctx, buf)
	require.NoError(t, err)
	assert.Equal(t, "456", string(buf))

	contents, err := f.Contents(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(contents))
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	existing := testutil.TempFile(t, "exists.txt", "x")

	tests := []struct {
		name string
		path string
		mode OpenMode
		want errors.Kind
	}{
		{"empty path", "", ModeRead, errors.KindInvalidParameter},
		{"embedded NUL", "a\x00b", ModeRead, errors.KindBadContent},
		{"no access mode", existing, ModeCreate, errors.KindInvalidParameter},
		{"two access modes", existing, ModeRead | ModeWrite, errors.KindInvalidParameter},
		{"missing file", filepath.Join(t.TempDir(), "missing"), ModeRead, errors.KindNoSuchObject},
		{"exclusive on existing", existing, ModeWrite | ModeCreate | ModeExclusive, errors.KindAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(ctx, tt.path, tt.mode)
			testutil.AssertKind(t, err, tt.want)
		})
	}
}

func TestOpen_NativeErrorKeepsCause(t *testing.T) {
	t.Parallel()
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing"), ModeRead)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
}

// ===========================================================================
// Path / Close Tests
// ===========================================================================

func TestFile_Path(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := testutil.TempFile(t, "named.txt", "x")

	f, err := Open(ctx, path, ModeRead)
	require.NoError(t, err)
	defer f.Close(ctx)

	got, err := f.Path(ctx)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, resolved)
	assert.True(t, filepath.IsAbs(got))
}

func TestFile_CloseTwice(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f, err := Open(ctx, testutil.TempFile(t, "c.txt", "x"), ModeRead)
	require.NoError(t, err)

	require.NoError(t, f.Close(ctx))
	testutil.RequireKind(t, f.Close(ctx), errors.KindBadOperation)

	_, err = f.Read(ctx, make([]byte, 1))
	testutil.RequireKind(t, err, errors.KindBadOperation)
}

// ===========================================================================
// Anonymous File Tests
// ===========================================================================

func TestOpenAnonymous(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f, err := OpenAnonymous(ctx)
	require.NoError(t, err)
	defer f.Close(ctx)

	assert.True(t, f.Anonymous())
	assert.Contains(t, f.Name(), anonymousPrefix)

	_, err = f.Write(ctx, []byte("scratch"))
	require.NoError(t, err)
	contents, err := f.Contents(ctx)
	require.NoError(t, err)
	assert.Equal(t, "scratch", string(contents))

	_, err = f.Path(ctx)
	testutil.RequireKind(t, err, errors.KindNoSuchObject)
}

func TestOpenAnonymous_DistinctHandles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a, err := OpenAnonymous(ctx)
	require.NoError(t, err)
	defer a.Close(ctx)
	b, err := OpenAnonymous(ctx)
	require.NoError(t, err)
	defer b.Close(ctx)

	assert.NotEqual(t, a.Name(), b.Name())
	assert.NotEqual(t, a.Fd(), b.Fd())
}

// ===========================================================================
// Directory Tests
// ===========================================================================

func TestListDirectory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("bb"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o700))

	var got []DirEntry
	err := ListDirectory(ctx, dir, func(e DirEntry) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "a.txt", got[0].Name)
	assert.EqualValues(t, 1, got[0].Size)
	assert.Equal(t, "b.txt", got[1].Name)
	assert.Equal(t, "sub", got[2].Name)
	assert.True(t, got[2].IsDir)
	assert.False(t, got[0].IsDir)
}

func TestListDirectory_CallbackErrorStops(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	for _, name := range []string{"1", "2", "3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	stop := stderrors.New("stop")
	calls := 0
	err := ListDirectory(ctx, dir, func(DirEntry) error {
		calls++
		return stop
	})
	assert.Same(t, stop, err)
	assert.Equal(t, 1, calls)
}

func TestListDirectory_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	noop := func(DirEntry) error { return nil }

	testutil.AssertKind(t, ListDirectory(ctx, "", noop), errors.KindInvalidParameter)
	testutil.AssertKind(t, ListDirectory(ctx, t.TempDir(), nil), errors.KindInvalidParameter)
	testutil.AssertKind(t, ListDirectory(ctx, filepath.Join(t.TempDir(), "missing"), noop), errors.KindNoSuchObject)
	testutil.AssertKind(t, ListDirectory(ctx, testutil.TempFile(t, "f", "x"), noop), errors.KindWrongObjectType)
}

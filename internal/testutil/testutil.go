// Package testutil provides shared test helpers for the StricklySoft
// systems layer.
//
// All helpers accept [testing.TB] for compatibility with both tests and
// benchmarks. Functions that halt the test on failure use [require] from
// testify; functions that record failures without stopping use [assert].
//
// Every helper calls t.Helper() so that test failure messages report the
// caller's file and line number rather than this package's.
package testutil

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StricklySoft/stricklysoft-sys/pkg/callstack"
	"github.com/StricklySoft/stricklysoft-sys/pkg/errors"
)

// RequireKind halts the test if err is nil, is not an *errors.Error, or
// does not carry the expected kind. This is the primary helper for
// validating failures from the systems layer.
//
// Example:
//
//	_, err := platform.Open(ctx, "/no/such/file", platform.ModeRead)
//	testutil.RequireKind(t, err, errors.KindNoSuchObject)
func RequireKind(t testing.TB, err error, kind errors.Kind, msgAndArgs ...any) *errors.Error {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	e, ok := errors.AsError(err)
	require.True(t, ok, "expected *errors.Error, got %T: %v", err, err)
	require.Equal(t, kind, e.Kind,
		"error kind mismatch: got %q, want %q (message: %s)",
		e.Kind.Name(), kind.Name(), e.Message)
	return e
}

// AssertKind records a test failure (without halting) if err is nil, is
// not an *errors.Error, or does not carry the expected kind. Use this in
// table-driven tests where you want to check all rows.
func AssertKind(t testing.TB, err error, kind errors.Kind, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Error(t, err, msgAndArgs...) {
		return false
	}
	e, ok := errors.AsError(err)
	if !assert.True(t, ok, "expected *errors.Error, got %T: %v", err, err) {
		return false
	}
	return assert.Equal(t, kind, e.Kind,
		"error kind mismatch: got %q, want %q (message: %s)",
		e.Kind.Name(), kind.Name(), e.Message)
}

// AssertNoSysError records a test failure if err is non-nil, printing the
// kind, message and backtrace of an *errors.Error for diagnostics.
func AssertNoSysError(t testing.TB, err error) bool {
	t.Helper()
	if err == nil {
		return true
	}
	if e, ok := errors.AsError(err); ok {
		return assert.Fail(t, "unexpected errors.Error", "%+v", e)
	}
	return assert.NoError(t, err)
}

// TrackedContext returns a context carrying a fresh call-stack tracker of
// the given capacity, and the tracker itself.
func TrackedContext(t testing.TB, capacity int) (context.Context, *callstack.Tracker) {
	t.Helper()
	tr := callstack.NewTracker(capacity)
	return callstack.WithTracker(context.Background(), tr), tr
}

// TempConfigFile creates a temporary file with the given content and
// extension (e.g., ".yaml", ".json") inside t.TempDir(). The file is
// automatically cleaned up when the test finishes.
func TempConfigFile(t testing.TB, content, ext string) string {
	t.Helper()
	return TempFile(t, "config"+ext, content)
}

// TempFile creates a temporary file with the given name and content
// inside t.TempDir(). The file is automatically cleaned up when the
// test finishes.
func TempFile(t testing.TB, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err, "failed to write temp file %s", path)
	return path
}

// SetEnv sets an environment variable and registers a cleanup function
// that restores the original value (or unsets it if it was not set)
// when the test completes.
//
// This is safe for use in parallel tests only if each test sets a
// unique environment variable. For shared variables, do not use
// t.Parallel().
func SetEnv(t testing.TB, key, value string) {
	t.Helper()
	prev, existed := os.LookupEnv(key)
	err := os.Setenv(key, value)
	require.NoError(t, err, "failed to set env var %s", key)
	t.Cleanup(func() {
		if existed {
			_ = os.Setenv(key, prev)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

// AssertJSONContains marshals v to JSON and asserts that the resulting
// JSON string contains the expected substring.
func AssertJSONContains(t testing.TB, v any, expected string) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err, "json.Marshal failed")
	assert.Contains(t, string(data), expected,
		"expected JSON to contain %q, got: %s", expected, string(data))
}

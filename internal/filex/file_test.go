package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureParentDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureParentDir(filepath.Join("data", "chepeat.db"))
	require.NoError(t, err)

	want := filepath.Join(tmp, "data", "chepeat.db")
	require.Equal(t, want, got)

	fi, err := os.Stat(filepath.Join(tmp, "data"))
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	first, err := EnsureParentDir("store/chepeat.db")
	require.NoError(t, err)

	second, err := EnsureParentDir("store/chepeat.db")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureParentDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("store", []byte("x"), 0o660))

	_, err := EnsureParentDir("store/chepeat.db")
	require.Error(t, err, "should fail when a file blocks the directory")
}

func TestEnsureParentDir_InMemory(t *testing.T) {
	for _, dsn := range []string{":memory:", "file:test?mode=memory&cache=shared"} {
		got, err := EnsureParentDir(dsn)
		require.NoError(t, err)
		require.Equal(t, dsn, got)
	}
}

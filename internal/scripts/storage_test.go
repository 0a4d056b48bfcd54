package scripts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("print('hi')\n"), 0o644))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "hello.py")
	writeScript(t, dir, "setup.sh")

	got, err := Lookup(dir, "hello.py")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "hello.py"), got)

	got, err = Lookup(dir, "setup")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "setup.sh"), got)

	_, err = Lookup(dir, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLookupIgnoresDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "hello.py"), 0o755))

	_, err := Lookup(dir, "hello.py")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeScript(t, dir, "b.sh")
	writeScript(t, dir, "a.py")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	names, err := List(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"a.py", "b.sh"}, names)

	names, err = List(filepath.Join(dir, "does-not-exist"))
	require.NoError(t, err)
	require.Empty(t, names)
}

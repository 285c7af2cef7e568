package lockfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcquireIsExclusive(t *testing.T) {
	path := DefaultPath(filepath.Join(t.TempDir(), "data"))

	first, err := Acquire(path)
	require.NoError(t, err)
	require.Equal(t, path, first.Path())

	_, err = Acquire(path)
	require.ErrorContains(t, err, "already running")

	require.NoError(t, first.Release())
	require.NoFileExists(t, path)

	again, err := Acquire(path)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestReleaseNil(t *testing.T) {
	var l *LockFile
	require.NoError(t, l.Release())
}

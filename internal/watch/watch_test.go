package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForChange(t *testing.T, fw *FileWatcher, within time.Duration) bool {
	t.Helper()
	select {
	case _, ok := <-fw.Changes():
		return ok
	case <-time.After(within):
		return false
	}
}

func TestFileWatcher_ReportsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.csv")
	fw, err := New(path)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(path, []byte("PERSON,Alice\n"), 0o644))
	assert.True(t, waitForChange(t, fw, 2*time.Second))
}

func TestFileWatcher_ReportsRenameIntoPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "team.csv")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	fw, err := New(path)
	require.NoError(t, err)
	defer fw.Close()

	tmp := filepath.Join(dir, ".team.csv.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("new\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))
	assert.True(t, waitForChange(t, fw, 2*time.Second))
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	fw, err := New(filepath.Join(dir, "team.csv"))
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x\n"), 0o644))
	assert.False(t, waitForChange(t, fw, 200*time.Millisecond))
}

func TestFileWatcher_CloseEndsChanges(t *testing.T) {
	fw, err := New(filepath.Join(t.TempDir(), "team.csv"))
	require.NoError(t, err)

	require.NoError(t, fw.Close())
	require.NoError(t, fw.Close(), "close is idempotent")

	_, ok := <-fw.Changes()
	assert.False(t, ok)
}

func TestFileWatcher_RetargetFollowsNewPath(t *testing.T) {
	oldPath := filepath.Join(t.TempDir(), "team.csv")
	newPath := filepath.Join(t.TempDir(), "other.csv")
	fw, err := New(oldPath)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.Retarget(newPath))
	assert.Equal(t, newPath, fw.Path())

	require.NoError(t, os.WriteFile(oldPath, []byte("x\n"), 0o644))
	assert.False(t, waitForChange(t, fw, 200*time.Millisecond), "the old file is no longer watched")

	require.NoError(t, os.WriteFile(newPath, []byte("y\n"), 0o644))
	assert.True(t, waitForChange(t, fw, 2*time.Second))
}

func TestFileWatcher_RetargetSameDirectory(t *testing.T) {
	dir := t.TempDir()
	fw, err := New(filepath.Join(dir, "team.csv"))
	require.NoError(t, err)
	defer fw.Close()

	next := filepath.Join(dir, "next.csv")
	require.NoError(t, fw.Retarget(next))
	require.NoError(t, os.WriteFile(next, []byte("y\n"), 0o644))
	assert.True(t, waitForChange(t, fw, 2*time.Second))
}

func TestFileWatcher_RetargetMissingDirectoryKeepsOldTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.csv")
	fw, err := New(path)
	require.NoError(t, err)
	defer fw.Close()

	err = fw.Retarget(filepath.Join(t.TempDir(), "nope", "x.csv"))
	require.Error(t, err)
	assert.Equal(t, path, fw.Path())
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "team.csv"))
	assert.Error(t, err)
}

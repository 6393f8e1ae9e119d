package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMountPointTempDirLifecycle(t *testing.T) {
	mp := NewMountPoint("")
	path, err := mp.Ensure()
	require.NoError(t, err)
	require.DirExists(t, path)

	again, err := mp.Ensure()
	require.NoError(t, err)
	require.Equal(t, path, again)
	require.Equal(t, path, mp.Planned())

	require.NoError(t, mp.Remove())
	require.NoDirExists(t, path)
	require.NoError(t, mp.Remove())
}

func TestMountPointKeepsExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	mp := NewMountPoint(dir)
	path, err := mp.Ensure()
	require.NoError(t, err)
	require.Equal(t, dir, path)

	require.NoError(t, mp.Remove())
	require.DirExists(t, dir)
}

func TestMountPointCreatesConfiguredDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "floppy")
	mp := NewMountPoint(dir)
	require.Equal(t, dir, mp.Planned())

	_, err := mp.Ensure()
	require.NoError(t, err)
	require.DirExists(t, dir)
	require.NoError(t, mp.Remove())
	require.NoDirExists(t, dir)
}

func TestMountPointNeverRemovesContents(t *testing.T) {
	mp := NewMountPoint("")
	path, err := mp.Ensure()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(path, "still-mounted"), []byte("x"), 0o644))

	require.Error(t, mp.Remove())
	require.FileExists(t, filepath.Join(path, "still-mounted"))
	require.NoError(t, os.RemoveAll(path))
}

func TestMountPointRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err := NewMountPoint(file).Ensure()
	require.Error(t, err)
}

package archive

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, entries map[string]string, order []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.zip")
	file, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(file)
	for _, name := range order {
		fw, err := w.Create(name)
		require.NoError(t, err)
		if body := entries[name]; body != "" {
			_, err = io.WriteString(fw, body)
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	require.NoError(t, file.Close())
	return path
}

func TestZipReaderYieldsEntriesInArchiveOrder(t *testing.T) {
	path := writeZip(t, map[string]string{
		"boot/kernel.bin": "0123456789",
	}, []string{"META-INF/MANIFEST", "boot/", "boot/kernel.bin"})

	r, err := OpenZip(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 3, r.Len())

	first, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "META-INF/MANIFEST", first.Path)
	require.False(t, first.IsDir)

	dir, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "boot/", dir.Path)
	require.True(t, dir.IsDir)
	_, err = dir.Open()
	require.Error(t, err)

	file, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, int64(10), file.Size)
	rc, err := file.Open()
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "0123456789", string(body))

	_, err = r.Next()
	require.True(t, errors.Is(err, io.EOF))
}

func TestOpenZipMissingArchive(t *testing.T) {
	_, err := OpenZip(filepath.Join(t.TempDir(), "missing.zip"))
	require.Error(t, err)
}

func TestHasPrefix(t *testing.T) {
	require.True(t, HasPrefix("META-INF/MANIFEST.MF", MetadataPrefix))
	require.True(t, HasPrefix("META-INF/", MetadataPrefix))
	require.False(t, HasPrefix("boot/META-INF", MetadataPrefix))
	require.False(t, HasPrefix("anything", ""))
}

func TestSafeRelativePath(t *testing.T) {
	got, err := SafeRelativePath("boot/kernel.bin")
	require.NoError(t, err)
	require.Equal(t, "boot/kernel.bin", got)

	got, err = SafeRelativePath("/system/")
	require.NoError(t, err)
	require.Equal(t, "system", got)

	for _, root := range []string{"./", ".", "/", ""} {
		got, err := SafeRelativePath(root)
		require.NoError(t, err, root)
		require.Empty(t, got, root)
	}

	for _, bad := range []string{"../etc/passwd", "boot/../../x", `..\evil`} {
		_, err := SafeRelativePath(bad)
		require.ErrorIs(t, err, ErrUnsafePath, bad)
	}
}

// Package archive reads the bundled installation archive one entry at a time.
package archive

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
)

// MetadataPrefix is the reserved prefix of archive bookkeeping entries.
const MetadataPrefix = "META-INF"

type Entry struct {
	Path  string
	IsDir bool
	Size  int64

	open func() (io.ReadCloser, error)
}

// NewEntry builds an entry whose contents come from open.
func NewEntry(entryPath string, isDir bool, size int64, open func() (io.ReadCloser, error)) *Entry {
	return &Entry{Path: entryPath, IsDir: isDir, Size: size, open: open}
}

// Open returns the uncompressed contents of a file entry.
func (e *Entry) Open() (io.ReadCloser, error) {
	if e.IsDir {
		return nil, fmt.Errorf("archive entry %q is a directory", e.Path)
	}
	if e.open == nil {
		return nil, fmt.Errorf("archive entry %q has no content", e.Path)
	}
	return e.open()
}

// Reader yields entries in archive order. It is single pass; reopen the
// archive to iterate again.
type Reader interface {
	Len() int
	Next() (*Entry, error)
	Close() error
}

// Opener opens a named archive.
type Opener func(name string) (Reader, error)

type ZipReader struct {
	rc   *zip.ReadCloser
	next int
}

func OpenZip(name string) (Reader, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", name, err)
	}
	return &ZipReader{rc: rc}, nil
}

func (r *ZipReader) Len() int {
	return len(r.rc.File)
}

func (r *ZipReader) Next() (*Entry, error) {
	if r.next >= len(r.rc.File) {
		return nil, io.EOF
	}
	file := r.rc.File[r.next]
	r.next++

	return &Entry{
		Path:  file.Name,
		IsDir: file.FileInfo().IsDir(),
		Size:  int64(file.UncompressedSize64),
		open:  file.Open,
	}, nil
}

func (r *ZipReader) Close() error {
	return r.rc.Close()
}

// HasPrefix reports whether entryPath starts with the reserved prefix.
func HasPrefix(entryPath string, prefix string) bool {
	if prefix == "" {
		return false
	}
	return strings.HasPrefix(strings.TrimLeft(entryPath, "/"), prefix)
}

var ErrUnsafePath = errors.New("archive entry escapes destination")

// SafeRelativePath validates an entry path and returns it in slash form
// without leading or trailing separators. Entries naming the destination
// root itself, such as "./", return "".
func SafeRelativePath(entryPath string) (string, error) {
	normalized := strings.ReplaceAll(entryPath, "\\", "/")
	for _, part := range strings.Split(normalized, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q", ErrUnsafePath, entryPath)
		}
	}
	cleaned := path.Clean("/" + normalized)
	return strings.TrimPrefix(cleaned, "/"), nil
}

package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const mountPointPattern = "vinstall-mount-*"

// MountPoint is the process-scoped directory the device is mounted on. It is
// created on first use and removed by Remove, which the owner defers for the
// lifetime of the process.
type MountPoint struct {
	mu      sync.Mutex
	dir     string
	path    string
	created bool
}

// NewMountPoint uses dir when set, otherwise a fresh directory under the
// system temp dir.
func NewMountPoint(dir string) *MountPoint {
	return &MountPoint{dir: dir}
}

// Planned returns the path Ensure would use without touching the filesystem.
func (m *MountPoint) Planned() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.path != "" {
		return m.path
	}
	if m.dir == "" {
		return filepath.Join(os.TempDir(), mountPointPattern)
	}
	if abs, err := filepath.Abs(m.dir); err == nil {
		return abs
	}
	return m.dir
}

func (m *MountPoint) Ensure() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.path != "" {
		return m.path, nil
	}

	if m.dir == "" {
		path, err := os.MkdirTemp("", mountPointPattern)
		if err != nil {
			return "", fmt.Errorf("create mount point: %w", err)
		}
		m.path = path
		m.created = true
		return m.path, nil
	}

	path, err := filepath.Abs(m.dir)
	if err != nil {
		return "", fmt.Errorf("resolve mount point %s: %w", m.dir, err)
	}
	info, err := os.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		return "", fmt.Errorf("mount point %s is not a directory", path)
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(path, 0o755); err != nil {
			return "", fmt.Errorf("create mount point %s: %w", path, err)
		}
		m.created = true
	default:
		return "", fmt.Errorf("stat mount point %s: %w", path, err)
	}
	m.path = path
	return m.path, nil
}

// Remove deletes the directory if this process created it. It never removes
// contents: a directory that is still a live mount is left in place.
func (m *MountPoint) Remove() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.created || m.path == "" {
		return nil
	}
	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove mount point %s: %w", m.path, err)
	}
	m.created = false
	return nil
}

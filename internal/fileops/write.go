package fileops

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/moby/sys/atomicwriter"
)

const BackupSuffix = ".vinstall.bak"

var (
	statFile    = os.Stat
	readFile    = os.ReadFile
	writeAtomic = atomicwriter.WriteFile
)

// WriteFile atomically replaces path with data. A previous file at path is
// first copied to path+BackupSuffix, whose name is returned ("" when there
// was nothing to keep).
func WriteFile(path string, data []byte, perm os.FileMode) (string, error) {
	target := strings.TrimSpace(path)
	if target == "" {
		return "", fmt.Errorf("write target path is empty")
	}

	backup := ""
	info, err := statFile(target)
	switch {
	case err == nil:
		if info.IsDir() {
			return "", fmt.Errorf("write target is a directory: %s", target)
		}
		previous, readErr := readFile(target)
		if readErr != nil {
			return "", fmt.Errorf("read existing %s: %w", target, readErr)
		}
		backup = target + BackupSuffix
		if err := writeAtomic(backup, previous, info.Mode().Perm()); err != nil {
			return "", fmt.Errorf("back up %s: %w", target, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("stat %q: %w", target, err)
	}

	if err := writeAtomic(target, data, perm); err != nil {
		return backup, fmt.Errorf("write %s: %w", target, err)
	}
	return backup, nil
}

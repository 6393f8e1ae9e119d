//go:build !unix

package platform

import (
	"fmt"
	"os"
)

// CheckWritable reports a read-only path from its mode bits. On Windows the
// read-only attribute clears the write bits.
func CheckWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0o222 == 0 {
		return fmt.Errorf("%s is read-only: %w", path, os.ErrPermission)
	}
	return nil
}

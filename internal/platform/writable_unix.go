//go:build unix

package platform

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// CheckWritable asks the kernel whether the real user may write path. The
// device is never opened.
func CheckWritable(path string) error {
	if err := unix.Access(path, unix.W_OK); err != nil {
		return fmt.Errorf("access %s: %w", path, err)
	}
	return nil
}

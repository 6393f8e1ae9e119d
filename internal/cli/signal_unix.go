//go:build !windows

package cli

import (
	"os"
	"syscall"
)

// interruptSignals cancel a running install. A closed terminal counts too,
// so the device still gets unmounted.
func interruptSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}
}

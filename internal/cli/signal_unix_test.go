//go:build !windows

package cli

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterruptSignalsIncludeHangup(t *testing.T) {
	signals := interruptSignals()
	require.Contains(t, signals, syscall.SIGINT)
	require.Contains(t, signals, syscall.SIGTERM)
	require.Contains(t, signals, syscall.SIGHUP)
}

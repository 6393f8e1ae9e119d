//go:build !unix

package engine

import "os/exec"

// Batch helpers run under cmd.exe; killing the direct child is all that is available here.
func configureCommandForTermination(cmd *exec.Cmd) {}

func terminateCommand(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}

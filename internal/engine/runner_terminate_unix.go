//go:build unix

package engine

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configureCommandForTermination puts the child in its own process group so
// helper scripts (copy-boot.sh) die together with anything they spawned.
func configureCommandForTermination(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminateCommand(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	if pid := cmd.Process.Pid; pid > 0 {
		_ = unix.Kill(-pid, unix.SIGKILL)
	}
	_ = cmd.Process.Kill()
}

//go:build windows

package launcher

import (
	"os/exec"
	"syscall"
	"time"
)

// setProcGroup configures the command to run in its own process group.
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// gracefulStopProc kills the server after timeout if it ignores the
// interrupt. Windows has no SIGTERM for console process groups.
func gracefulStopProc(cmd *exec.Cmd, done <-chan error, timeout time.Duration) {
	_ = cmd.Process.Signal(syscall.SIGTERM)

	select {
	case <-done:
	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		<-done
	}
}

//go:build !windows

package launcher

import (
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// setProcGroup runs the server in its own process group so Chrome instances it
// spawns are stopped with it.
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// gracefulStopProc sends SIGTERM to the process group, waits up to timeout,
// then force-kills if still running.
func gracefulStopProc(cmd *exec.Cmd, done <-chan error, timeout time.Duration) {
	pid := cmd.Process.Pid
	_ = unix.Kill(-pid, unix.SIGTERM)

	select {
	case <-done:
	case <-time.After(timeout):
		_ = unix.Kill(-pid, unix.SIGKILL)
		<-done
	}
}

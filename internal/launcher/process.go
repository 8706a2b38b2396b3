package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/neboloop/devtools-mcp/internal/logging"
)

// StopTimeout is how long a cancelled server gets to exit before it is killed.
const StopTimeout = 5 * time.Second

// Stdio is the stream triple handed to the server. The MCP transport runs on
// Stdin/Stdout.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// OSStdio wires the server to this process's standard streams.
func OSStdio() Stdio {
	return Stdio{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Exec returns an *exec.Cmd for c with its environment layered over ours.
func (c *Command) Exec() *exec.Cmd {
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Env = append(os.Environ(), c.Env...)
	return cmd
}

// Run starts the server and waits for it to exit. When ctx is cancelled the
// server's process group is asked to stop and killed after StopTimeout. The
// server is not restarted.
func Run(ctx context.Context, c *Command, stdio Stdio) error {
	cmd := c.Exec()
	cmd.Stdin = stdio.Stdin
	cmd.Stdout = stdio.Stdout
	cmd.Stderr = stdio.Stderr
	setProcGroup(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launcher: start %s: %w", c.Path, err)
	}
	logging.Debugf("server started pid=%d", cmd.Process.Pid)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return exitError(err)
	case <-ctx.Done():
		logging.Infof("stopping server pid=%d", cmd.Process.Pid)
		gracefulStopProc(cmd, done, StopTimeout)
		return ctx.Err()
	}
}

func exitError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("launcher: server exited with code %d: %w", exitErr.ExitCode(), err)
	}
	return fmt.Errorf("launcher: wait: %w", err)
}

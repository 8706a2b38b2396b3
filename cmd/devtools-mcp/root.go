package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neboloop/devtools-mcp/internal/launcher"
)

// runLaunch composes the server command and runs it on our stdio until it
// exits or we are signalled.
func runLaunch(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := loadEnv()
	if err != nil {
		return err
	}

	c, err := e.launcher.Command(ctx, e.project)
	if err != nil {
		return err
	}

	err = launcher.Run(ctx, c, launcher.OSStdio())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neboloop/devtools-mcp/internal/args"
	"github.com/neboloop/devtools-mcp/internal/config"
	"github.com/neboloop/devtools-mcp/internal/logging"
	"github.com/neboloop/devtools-mcp/internal/settings"
	"github.com/neboloop/devtools-mcp/internal/watch"
)

// WatchCmd re-resolves settings whenever a settings file changes
func WatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the translated flags every time a settings file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd.OutOrStdout())
		},
	}
}

func runWatch(ctx context.Context, out io.Writer) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	report := func() { reportArgs(out, e.settings()) }
	report()

	names := config.FileNames
	if e.source.Explicit != "" {
		names = []string{filepath.Base(e.source.Explicit)}
	}
	w := &watch.Watcher{
		Dirs:      e.source.Dirs(e.project),
		FileNames: names,
		OnChange:  report,
	}
	return w.Run(ctx)
}

// reportArgs prints the conflicts of s as comments followed by its argument
// vector.
func reportArgs(out io.Writer, s settings.Settings) {
	for _, c := range settings.Conflicts(s) {
		fmt.Fprintf(out, "# %s\n", c)
	}
	if err := writeJSON(out, args.Build(s)); err != nil {
		logging.Warnf("watch: write args: %v", err)
	}
}

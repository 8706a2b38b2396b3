package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neboloop/devtools-mcp/internal/config"
	"github.com/neboloop/devtools-mcp/internal/defaults"
	"github.com/neboloop/devtools-mcp/internal/launcher"
	"github.com/neboloop/devtools-mcp/internal/logging"
	"github.com/neboloop/devtools-mcp/internal/npm"
	"github.com/neboloop/devtools-mcp/internal/settings"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// Shared CLI flags (used across multiple command files)
var (
	projectDir   string
	settingsFile string
	dataDir      string
	serverID     string
	nodePath     string
	skipInstall  bool
	verbose      bool
	quiet        bool
)

// SetupRootCmd configures the root command with all subcommands and flags
func SetupRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "devtools-mcp",
		Short: "Launch the Chrome DevTools MCP server with editor settings",
		Long: `devtools-mcp translates context server settings into chrome-devtools-mcp
flags and launches the server over stdio.

Run it as the context server command of your editor. Settings are read from
<data dir>/settings.yaml and <project>/.devtools-mcp/settings.yaml.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetVerbose(verbose)
			if quiet {
				logging.Disable()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&projectDir, "project", "", "project directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file, replaces global and project files")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: platform data directory)")
	rootCmd.PersistentFlags().StringVar(&serverID, "server-id", launcher.ServerID, "context server id the settings are keyed by")
	rootCmd.PersistentFlags().StringVar(&nodePath, "node", "", "node executable (default: node on PATH)")
	rootCmd.PersistentFlags().BoolVar(&skipInstall, "skip-install", false, "do not check or update the npm package")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress diagnostics")

	// Add commands
	rootCmd.AddCommand(CommandCmd())
	rootCmd.AddCommand(ArgsCmd())
	rootCmd.AddCommand(SchemaCmd())
	rootCmd.AddCommand(ConfigurationCmd())
	rootCmd.AddCommand(InstallCmd())
	rootCmd.AddCommand(DoctorCmd())
	rootCmd.AddCommand(ToolsCmd())
	rootCmd.AddCommand(WatchCmd())

	return rootCmd
}

// env is everything a command needs, built from the shared flags.
type env struct {
	dataDir  string
	project  string
	source   *config.FileSource
	npm      *npm.Client
	launcher *launcher.Launcher
}

func loadEnv() (*env, error) {
	dir := dataDir
	if dir == "" {
		d, err := defaults.EnsureDataDir()
		if err != nil {
			return nil, err
		}
		dir = d
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	project := projectDir
	if project == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("working directory: %w", err)
		}
		project = cwd
	}

	source := &config.FileSource{GlobalDir: dir, Explicit: settingsFile}
	client := npm.New(dir)
	client.Node = nodePath

	return &env{
		dataDir: dir,
		project: project,
		source:  source,
		npm:     client,
		launcher: &launcher.Launcher{
			Resolver:    &settings.Resolver{Source: source, ServerID: serverID},
			Packages:    client,
			Runtime:     client,
			WorkDir:     dir,
			SkipInstall: skipInstall,
		},
	}, nil
}

func (e *env) settings() settings.Settings {
	return e.launcher.Settings(e.project)
}

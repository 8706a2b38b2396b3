package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neboloop/devtools-mcp/internal/launcher"
)

// InstallCmd installs or updates the upstream npm package
func InstallCmd() *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install or update the chrome-devtools-mcp npm package",
		Long: `Install chrome-devtools-mcp into the data directory.

Examples:
  devtools-mcp install                   # latest version
  devtools-mcp install --version 0.12.1  # pin a version`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			installed, err := e.npm.InstalledVersion(ctx, launcher.PackageName)
			if err != nil {
				return err
			}
			want := version
			if want == "" {
				if want, err = e.npm.LatestVersion(ctx, launcher.PackageName); err != nil {
					return err
				}
			}
			if installed == want {
				fmt.Fprintf(out, "%s@%s is up to date\n", launcher.PackageName, installed)
				return nil
			}

			if err := e.npm.Install(ctx, launcher.PackageName, want); err != nil {
				return err
			}
			fmt.Fprintf(out, "Installed %s@%s in %s\n", launcher.PackageName, want, e.dataDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "version to install (default: latest)")

	return cmd
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/neboloop/devtools-mcp/internal/args"
	"github.com/neboloop/devtools-mcp/internal/defaults"
	"github.com/neboloop/devtools-mcp/internal/settings"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// CommandCmd prints the launch command as JSON
func CommandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "command",
		Short: "Print the server launch command as JSON",
		Long: `Resolve settings, update the npm package and print the command an editor
would run, as {"command", "args", "env"}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			c, err := e.launcher.Command(cmd.Context(), e.project)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), c)
		},
	}
}

// ArgsCmd prints the translated argument vector
func ArgsCmd() *cobra.Command {
	var lines bool

	cmd := &cobra.Command{
		Use:   "args",
		Short: "Print the server flags the current settings translate to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			argv := args.Build(e.settings())
			if lines {
				for _, a := range argv {
					fmt.Fprintln(cmd.OutOrStdout(), a)
				}
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), argv)
		},
	}

	cmd.Flags().BoolVar(&lines, "lines", false, "one argument per line instead of a JSON array")

	return cmd
}

// SchemaCmd prints the settings JSON schema
func SchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the settings JSON schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := settings.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

// contextServerConfiguration is what editors show before the server is set up.
type contextServerConfiguration struct {
	InstallationInstructions string `json:"installation_instructions"`
	DefaultSettings          string `json:"default_settings"`
	SettingsSchema           string `json:"settings_schema"`
}

// ConfigurationCmd prints the editor configuration payload
func ConfigurationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configuration",
		Short: "Print installation instructions, default settings and schema as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := settings.Schema()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), contextServerConfiguration{
				InstallationInstructions: defaults.InstallationInstructions(),
				DefaultSettings:          defaults.DefaultSettings(),
				SettingsSchema:           string(schema),
			})
		},
	}
}

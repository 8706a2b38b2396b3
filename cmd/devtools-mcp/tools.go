package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/neboloop/devtools-mcp/internal/probe"
)

// ToolsCmd starts the server and lists its tools
func ToolsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Start the server with the current settings and list its tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			c, err := e.launcher.Command(cmd.Context(), e.project)
			if err != nil {
				return err
			}

			res, err := probe.Run(cmd.Context(), c.Exec(), Version)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range res.Tools {
				fmt.Fprintf(tw, "%s\t%s\n", t.Name, firstLine(t.Description))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

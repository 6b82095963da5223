package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/planline/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a whole plan from a YAML or JSON file",
		Long: `Creates a project with its WBS tree, task costs, dependencies and
progress claims in one transaction, then rolls every node up. Files ending
in .yaml or .yml are read as YAML, anything else as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportFile(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatImportResult(res))
			return nil
		},
	}
}

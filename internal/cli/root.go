package cli

import (
	"github.com/alexanderramin/planline/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects  service.ProjectService
	Wbs       service.WbsService
	Deps      service.DependencyService
	Valuation service.ValuationService
	Curve     service.CurveService
	Import    service.ImportService

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh confirm form.
	Confirm func(title string) (bool, error)
}

// NewRootCmd creates the top-level "planline" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "planline",
		Short:         "WBS rollup, task dependencies and earned-value curves",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newNodeCmd(app),
		newTaskCmd(app),
		newDepCmd(app),
		newCostCmd(app),
		newClaimCmd(app),
		newCurveCmd(app),
		newImportCmd(app),
	)

	return root
}

package formatter

import (
	"fmt"

	"github.com/alexanderramin/planline/internal/app"
)

func FormatImportResult(res *app.ImportResult) string {
	body := fmt.Sprintf("%s %s\n\n", Bold(res.Project.Name), StylePurple.Render(res.Project.DisplayID()))
	body += RenderTable(
		[]string{"NODES", "TASKS", "DEPS", "COSTS", "CLAIMS", "ROLLED UP"},
		[][]string{{
			fmt.Sprint(res.NodeCount),
			fmt.Sprint(res.TaskCount),
			fmt.Sprint(res.EdgeCount),
			fmt.Sprint(res.CostCount),
			fmt.Sprint(res.ClaimCount),
			fmt.Sprint(res.RolledUp),
		}},
	)
	return RenderBox("Imported", body)
}

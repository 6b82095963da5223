package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planline/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// ProjectShowData holds everything the project card renders.
type ProjectShowData struct {
	Project   *domain.Project
	Root      *domain.WbsNode
	Tree      []TreeItem
	TaskCount int
	EdgeCount int
	BAC       float64
}

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "CREATED"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		id := p.ShortID
		if strings.TrimSpace(id) == "" {
			id = TruncID(p.ID)
		}
		rows = append(rows, []string{
			id,
			Bold(p.Name),
			Dim(HumanDate(p.CreatedAt)),
		})
	}

	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectShow renders the project card: rolled-up totals on the left,
// the WBS tree on the right.
func FormatProjectShow(data ProjectShowData) string {
	left := buildMetadataPanel(data)
	right := RenderTree(data.Tree)
	if right == "" {
		right = Dim("No WBS nodes yet.")
	}
	combined := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	return RenderBox("", combined)
}

func buildMetadataPanel(data ProjectShowData) string {
	var b strings.Builder
	p := data.Project

	b.WriteString(StyleBold.Render(p.Name) + "\n")
	b.WriteString(StylePurple.Render(p.DisplayID()) + "\n\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-6s", label)), value))
	}
	field("UUID", TruncID(p.ID))
	if data.Root != nil {
		field("START", FormatDate(data.Root.DateStart))
		field("FINISH", FormatDate(data.Root.DateFinish))
		field("HOURS", FormatHours(data.Root.HoursPlanned))
	}
	field("TASKS", StyleFg.Render(fmt.Sprintf("%d", data.TaskCount)))
	field("DEPS", StyleFg.Render(fmt.Sprintf("%d", data.EdgeCount)))
	field("BAC", StyleFg.Render(FormatAmount(data.BAC)))

	return b.String()
}

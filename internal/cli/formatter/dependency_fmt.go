package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planline/internal/domain"
)

// FormatEdgeList renders dependency edges. titles maps task ids to titles;
// unknown ids fall back to a truncated id.
func FormatEdgeList(edges []domain.DependencyEdge, titles map[string]string) string {
	headers := []string{"ID", "ORIGIN", "", "DEPENDENT", "TYPE", "LAG"}
	rows := make([][]string, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, []string{
			TruncID(e.ID),
			taskLabel(e.OriginTaskID, titles),
			Dim("→"),
			taskLabel(e.DependentTaskID, titles),
			StyleBlue.Render(e.Kind.Short()),
			FormatLag(e.LagMinutes),
		})
	}
	return RenderBox("Dependencies", RenderTable(headers, rows))
}

// FormatOrder renders a topological task order as a numbered list.
func FormatOrder(order []string, titles map[string]string) string {
	var b strings.Builder
	b.WriteString(Header("Task order") + "\n")
	for i, id := range order {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim(fmt.Sprintf("%3d.", i+1)), taskLabel(id, titles)))
	}
	return b.String()
}

// FormatLag renders a lag in minutes as days/hours/minutes, "--" for none.
func FormatLag(min int) string {
	if min <= 0 {
		return Dim("--")
	}
	d, h, m := min/(24*60), (min/60)%24, min%60
	var parts []string
	if d > 0 {
		parts = append(parts, fmt.Sprintf("%dd", d))
	}
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	return strings.Join(parts, " ")
}

func taskLabel(id string, titles map[string]string) string {
	if t, ok := titles[id]; ok {
		return t
	}
	return TruncID(id)
}

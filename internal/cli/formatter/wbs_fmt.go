package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planline/internal/domain"
	"github.com/alexanderramin/planline/internal/rollup"
	"github.com/alexanderramin/planline/internal/service"
)

// TreeItems flattens a WBS tree depth-first for RenderTree. Each item's
// detail badge shows its span and planned hours.
func TreeItems(root *service.TreeNode) []TreeItem {
	if root == nil {
		return nil
	}
	var items []TreeItem
	var visit func(n *service.TreeNode, level int, last bool)
	visit = func(n *service.TreeNode, level int, last bool) {
		items = append(items, TreeItem{
			ID:     n.Node.ID,
			Title:  n.Node.Title,
			Kind:   n.Node.Kind,
			Level:  level,
			IsLast: last,
			Detail: nodeDetail(n.Node),
		})
		for i, c := range n.Children {
			visit(c, level+1, i == len(n.Children)-1)
		}
	}
	visit(root, 0, true)
	return items
}

func nodeDetail(n *domain.WbsNode) string {
	if n.DateStart == nil && n.DateFinish == nil && n.HoursPlanned == nil {
		return ""
	}
	var parts []string
	if n.DateStart != nil || n.DateFinish != nil {
		parts = append(parts, FormatSpan(n.DateStart, n.DateFinish))
	}
	if n.HoursPlanned != nil {
		parts = append(parts, FormatHours(n.HoursPlanned))
	}
	return strings.Join(parts, " · ")
}

// FormatNode renders one node and its direct children.
func FormatNode(n *domain.WbsNode, children []*domain.WbsNode) string {
	var b strings.Builder
	b.WriteString(KindBadge(n.Kind) + " " + StyleBold.Render(n.Title) + "\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("ID    "), n.ID))
	if n.ParentID != nil {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("PARENT"), *n.ParentID))
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("SPAN  "), FormatSpan(n.DateStart, n.DateFinish)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("HOURS "), FormatHours(n.HoursPlanned)))
	if !n.IsLeaf() {
		b.WriteString(Dim("rolled up from children") + "\n")
	}

	if len(children) > 0 {
		b.WriteString("\n" + Header("Children") + "\n")
		rows := make([][]string, 0, len(children))
		for _, c := range children {
			rows = append(rows, []string{
				TruncID(c.ID),
				KindBadge(c.Kind),
				c.Title,
				FormatSpan(c.DateStart, c.DateFinish),
				FormatHours(c.HoursPlanned),
			})
		}
		b.WriteString(RenderTable([]string{"ID", "KIND", "TITLE", "SPAN", "HOURS"}, rows))
	}
	return RenderBox(string(n.Kind), strings.TrimRight(b.String(), "\n"))
}

// FormatRollup summarises the ancestors a mutation rewrote.
func FormatRollup(res rollup.Result) string {
	if len(res.Updated) == 0 {
		return Dim(fmt.Sprintf("rollup: no ancestor changed (stopped: %s)", res.Stopped))
	}
	return Dim(fmt.Sprintf("rollup: %d ancestor(s) updated (stopped: %s)", len(res.Updated), res.Stopped))
}

package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/planline/internal/app"
	"github.com/alexanderramin/planline/internal/domain"
	"github.com/alexanderramin/planline/internal/evm"
	"github.com/alexanderramin/planline/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ansiPattern matches ANSI escape sequences so assertions are terminal-independent.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{12.5, "12.50"},
		{1000, "1,000.00"},
		{1234567.891, "1,234,567.89"},
		{999.999, "1,000.00"},
		{-450, "-450.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in))
	}
}

func TestFormatHoursAndLag(t *testing.T) {
	h := 12.5
	assert.Equal(t, "12.5h", FormatHours(&h))
	h = 40
	assert.Equal(t, "40h", FormatHours(&h))
	assert.Equal(t, "--", stripANSI(FormatHours(nil)))

	assert.Equal(t, "1d 2h 5m", FormatLag(24*60+125))
	assert.Equal(t, "--", stripANSI(FormatLag(0)))
}

func TestHumanDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Today", HumanDateFrom(now, now))
	assert.Equal(t, "Yesterday", HumanDateFrom(now.AddDate(0, 0, -1), now))
	assert.Equal(t, "Jan 3, 2026", HumanDateFrom(time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), now))
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"A", "B"},
		[][]string{{StyleGreen.Render("long cell"), "x"}, {"s", "y"}},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Index(lines[2], "x"), strings.Index(lines[3], "y"))
}

func TestRenderBar(t *testing.T) {
	full := stripANSI(RenderBar(10, 10, 4, StyleGreen.Render))
	assert.Equal(t, strings.Repeat(filledBlock, 4), full)

	empty := stripANSI(RenderBar(0, 0, 4, StyleGreen.Render))
	assert.Equal(t, strings.Repeat(emptyBlock, 4), empty)

	half := stripANSI(RenderBar(5, 10, 4, StyleGreen.Render))
	assert.Equal(t, filledBlock+filledBlock+emptyBlock+emptyBlock, half)
}

func TestTreeItems_DepthFirstWithLastFlags(t *testing.T) {
	node := func(id string, kind domain.NodeKind) *domain.WbsNode {
		return &domain.WbsNode{ID: id, Title: id, Kind: kind}
	}
	hours := 8.0
	task := node("t1", domain.NodeTask)
	task.HoursPlanned = &hours
	tree := &service.TreeNode{Node: node("root", domain.NodeProject), Children: []*service.TreeNode{
		{Node: node("ph1", domain.NodePhase), Children: []*service.TreeNode{
			{Node: node("wp1", domain.NodeWorkPackage)},
		}},
		{Node: node("ph2", domain.NodePhase), Children: []*service.TreeNode{
			{Node: node("wp2", domain.NodeWorkPackage), Children: []*service.TreeNode{
				{Node: node("act", domain.NodeActivity), Children: []*service.TreeNode{{Node: task}}},
			}},
		}},
	}}

	items := TreeItems(tree)
	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"root", "ph1", "wp1", "ph2", "wp2", "act", "t1"}, ids)
	assert.False(t, items[1].IsLast)
	assert.True(t, items[3].IsLast)
	assert.Equal(t, "8h", items[6].Detail)

	out := stripANSI(RenderTree(items))
	assert.Contains(t, out, "├─ PH ph1")
	assert.Contains(t, out, "│  └─ WP wp1")
	assert.Contains(t, out, "   └─ WP wp2")
	assert.Contains(t, out, "[ 8h ]")
}

func TestFormatCurve(t *testing.T) {
	spi := 450.0 / 700.0
	resp := &app.CurveResponse{
		RangeStart: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Weeks: []evm.WeekBucket{
			{Label: "2025-W02 06 Jan", PV: 700, EV: 450, PVAcum: 700, EVAcum: 450},
			{Label: "2025-W03 13 Jan", PV: 300, PVAcum: 1000, EVAcum: 450},
		},
		Metrics:  evm.Metrics{PVTotal: 700, EVTotal: 450, SV: -250, SPI: &spi, BAC: 1000, ReferenceWeek: 0},
		Warnings: []string{"range truncated"},
	}

	out := stripANSI(FormatCurve(resp))
	assert.Contains(t, out, "CURVE 2025-01-06 → 2025-01-15")
	assert.Contains(t, out, "2025-W02 06 Jan ◆")
	assert.Contains(t, out, "1,000.00")
	assert.Contains(t, out, "0.64")
	assert.Contains(t, out, "-250.00")
	assert.Contains(t, out, "n/a")
	assert.Contains(t, out, "! range truncated")
}

func TestFormatCurve_Empty(t *testing.T) {
	out := stripANSI(FormatCurve(&app.CurveResponse{Metrics: evm.Metrics{ReferenceWeek: -1}}))
	assert.Contains(t, out, "Nothing to plot.")
	assert.Contains(t, out, "CURVE")
}

func TestFormatEdgeList_UsesTitles(t *testing.T) {
	edges := []domain.DependencyEdge{{
		ID: "edge-1234567890", OriginTaskID: "a", DependentTaskID: "b",
		Kind: domain.StartToStart, LagMinutes: 90,
	}}
	out := stripANSI(FormatEdgeList(edges, map[string]string{"a": "Excavate", "b": "Pour"}))
	assert.Contains(t, out, "Excavate")
	assert.Contains(t, out, "Pour")
	assert.Contains(t, out, "SS")
	assert.Contains(t, out, "1h 30m")
	assert.Contains(t, out, "edge-123")
	assert.NotContains(t, out, "edge-1234567890")
}

func TestFormatProjectList_UsesShortIDWhenPresent(t *testing.T) {
	now := time.Now().UTC()
	out := stripANSI(FormatProjectList([]*domain.Project{
		{ID: "12345678-aaaa-bbbb-cccc-1234567890ab", ShortID: "BRG01", Name: "Footbridge", CreatedAt: now},
		{ID: "abcdef12-3456-7890-abcd-ef1234567890", Name: "Legacy", CreatedAt: now},
	}))
	assert.Contains(t, out, "BRG01")
	assert.NotContains(t, out, "12345678")
	assert.Contains(t, out, "abcdef12")
}

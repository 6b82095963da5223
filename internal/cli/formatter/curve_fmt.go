package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planline/internal/app"
)

const curveBarWidth = 20

// FormatCurve renders the weekly PV/EV table with cumulative bars scaled to
// the larger of BAC and the highest accumulated value, then the metrics summary.
func FormatCurve(resp *app.CurveResponse) string {
	var b strings.Builder

	if resp.Empty() {
		b.WriteString(Dim("Nothing to plot.") + "\n")
	} else {
		scale := resp.Metrics.BAC
		for _, w := range resp.Weeks {
			scale = max(scale, w.PVAcum, w.EVAcum)
		}

		headers := []string{"WEEK", "PV", "EV", "PV CUM", "EV CUM", "PV", "EV"}
		rows := make([][]string, 0, len(resp.Weeks))
		for i, w := range resp.Weeks {
			label := w.Label
			if i == resp.Metrics.ReferenceWeek {
				label = StyleYellowBold.Render(label + " ◆")
			}
			rows = append(rows, []string{
				label,
				FormatAmount(w.PV),
				FormatAmount(w.EV),
				FormatAmount(w.PVAcum),
				FormatAmount(w.EVAcum),
				RenderBar(w.PVAcum, scale, curveBarWidth, StyleBlue.Render),
				RenderBar(w.EVAcum, scale, curveBarWidth, StyleGreen.Render),
			})
		}
		b.WriteString(RenderTable(headers, rows))
	}

	b.WriteString("\n" + FormatMetrics(resp) + "\n")

	for _, w := range resp.Warnings {
		b.WriteString(StyleYellow.Render("! "+w) + "\n")
	}
	if n := len(resp.SkippedTasks); n > 0 {
		b.WriteString(Dim(fmt.Sprintf("%d task(s) contributed no planned value", n)) + "\n")
	}

	title := fmt.Sprintf("Curve %s → %s",
		resp.RangeStart.Format(dateLayout), resp.RangeEnd.Format(dateLayout))
	if resp.RangeStart.IsZero() {
		title = "Curve"
	}
	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}

// FormatMetrics renders the EVM summary line block.
func FormatMetrics(resp *app.CurveResponse) string {
	m := resp.Metrics
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-4s", label)), value))
	}
	line("BAC", FormatAmount(m.BAC))
	line("PV", FormatAmount(m.PVTotal))
	line("EV", FormatAmount(m.EVTotal))
	sv := FormatAmount(m.SV)
	if m.SV < 0 {
		sv = StyleRed.Render(sv)
	} else {
		sv = StyleGreen.Render(sv)
	}
	line("SV", sv)
	line("SPI", FormatIndex(m.SPI))
	line("CPI", FormatIndex(m.CPI))
	if m.BAC > 0 {
		line("DONE", RenderProgress(m.EVTotal/m.BAC, 10))
	}
	return strings.TrimRight(b.String(), "\n")
}

package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct, width = clampBar(pct, width)
	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	var style = StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}

	pctStr := fmt.Sprintf("%3.0f%%", pct*100)
	return fmt.Sprintf("[%s] %s", style.Render(bar), pctStr)
}

// RenderBar draws an unbracketed bar of width cells for value/max in a
// single style. Used for the weekly PV and EV columns of the curve.
func RenderBar(value, max float64, width int, style func(...string) string) string {
	pct := 0.0
	if max > 0 {
		pct = value / max
	}
	pct, width = clampBar(pct, width)
	filled := int(pct*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return style(strings.Repeat(filledBlock, filled)) + Dim(strings.Repeat(emptyBlock, width-filled))
}

func clampBar(pct float64, width int) (float64, int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}
	return pct, width
}

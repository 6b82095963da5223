package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planline/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// KindStyle returns the style used for a WBS node of the given kind.
func KindStyle(kind domain.NodeKind) lipgloss.Style {
	switch kind {
	case domain.NodeProject:
		return StyleHeader
	case domain.NodePhase:
		return StylePurple
	case domain.NodeWorkPackage:
		return StyleBlue
	case domain.NodeActivity:
		return StyleYellow
	default:
		return StyleFg
	}
}

// KindBadge renders a short colored label such as "WP" for a node kind.
func KindBadge(kind domain.NodeKind) string {
	label := map[domain.NodeKind]string{
		domain.NodeProject:     "PRJ",
		domain.NodePhase:       "PH",
		domain.NodeWorkPackage: "WP",
		domain.NodeActivity:    "ACT",
		domain.NodeTask:        "T",
	}[kind]
	if label == "" {
		label = string(kind)
	}
	return KindStyle(kind).Render(label)
}

// IndexStyle colors a performance index: green at or above 1, yellow within
// 10% below, red beyond that.
func IndexStyle(v float64) lipgloss.Style {
	switch {
	case v >= 1:
		return StyleGreen
	case v >= 0.9:
		return StyleYellow
	default:
		return StyleRed
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

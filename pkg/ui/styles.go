package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Chrome geometry, in rows. The canvas occupies everything between the
// crumb bar and the footer; the navigation machine's viewport is sized to
// the canvas alone so layout math never sees the chrome.
const (
	headerRows = 1
	crumbRows  = 1
	footerRows = 1
	canvasTop  = headerRows + crumbRows
)

// Adaptive color tokens shared by styles that are not theme-scoped.
var (
	ColorText    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
)

// crumbSeparator joins breadcrumb entries; the clipboard copy uses the
// same separator so the two stay in sync.
const crumbSeparator = " › "

// RenderZoomGauge renders the zoom progress as a fixed-width bar plus a
// percentage of the current bound, e.g. "▰▰▰▱▱▱▱▱ 42%".
func RenderZoomGauge(progress, bound float64, width int, t Theme) string {
	if width <= 0 || bound <= 0 {
		return ""
	}
	frac := progress / bound
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	bar := t.Renderer.NewStyle().Foreground(t.Primary).Render(strings.Repeat("▰", filled)) +
		t.MutedText.Render(strings.Repeat("▱", width-filled))
	return bar + t.SecondaryText.Render(fmt.Sprintf(" %3.0f%%", frac*100))
}

// RenderDivider renders a horizontal divider line.
func RenderDivider(width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", width))
}

package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals use the
// terminal's own background instead of a down-converted approximation
// that may clash with palettes like Solarized.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if hex == "" || TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Semantics
	Success lipgloss.AdaptiveColor
	Danger  lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	// UI elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base   lipgloss.Style
	Header lipgloss.Style

	// Pre-computed styles, created once at startup instead of per-frame
	MutedText     lipgloss.Style // separators, gauge track, hints
	SecondaryText lipgloss.Style // inactive crumbs, captions
	PrimaryBold   lipgloss.Style // active crumb, title
	SuccessText   lipgloss.Style // status line (ok)
	DangerText    lipgloss.Style // status line (error)
	NodeBadge     lipgloss.Style // terminal node label
	NodeSelected  lipgloss.Style // keyboard-selected node label
	NodeZooming   lipgloss.Style // node an active zoom is locked onto
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Success: lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green
		Danger:  lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}, // Red
		Info:    lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}, // Cyan

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.SuccessText = r.NewStyle().Foreground(t.Success).Bold(true)
	t.DangerText = r.NewStyle().Foreground(t.Danger).Bold(true)
	t.NodeBadge = t.Base
	t.NodeSelected = r.NewStyle().
		Background(t.Highlight).
		Foreground(t.Base.GetForeground()).
		Bold(true)
	t.NodeZooming = r.NewStyle().Foreground(t.Primary).Bold(true)

	return t
}

// ApplyThemeMode forces the renderer's background assumption for the
// config theme setting. "auto" leaves detection alone.
func ApplyThemeMode(r *lipgloss.Renderer, mode string) {
	switch mode {
	case "dark":
		r.SetHasDarkBackground(true)
	case "light":
		r.SetHasDarkBackground(false)
	}
}

// NodeColor resolves a node's display color: its own hex when set,
// otherwise the theme primary.
func (t Theme) NodeColor(hex string) lipgloss.TerminalColor {
	if hex == "" {
		return t.Primary
	}
	return ThemeFg(hex)
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}

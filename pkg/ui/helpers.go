package ui

import "github.com/mattn/go-runewidth"

// truncateTo truncates a string to max visual width (cells), adding suffix
// if needed. Uses go-runewidth so wide characters count correctly.
func truncateTo(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		// Even suffix is too wide, truncate suffix
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	return runewidth.Truncate(s, maxWidth-suffixWidth, "") + suffix
}

// truncate truncates string s to maxWidth cells with an ellipsis.
func truncate(s string, maxWidth int) string {
	return truncateTo(s, maxWidth, "…")
}

// clampInt bounds v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

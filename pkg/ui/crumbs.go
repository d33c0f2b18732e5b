package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/layerlens/pkg/nav"
)

// maxCrumbWidth bounds a single breadcrumb label, in cells.
const maxCrumbWidth = 14

const crumbEllipsis = "…"

// crumbSpan is one clickable breadcrumb: its history index and the cell
// range it occupies on the crumb row. The bar renders from spans and the
// mouse dispatcher hit-tests against them, so clicks always land on what
// was drawn.
type crumbSpan struct {
	index  int
	x0, x1 int // [x0, x1)
	text   string
}

// crumbSpans lays out the trail, most recent crumb last. When the full
// trail does not fit, leading crumbs are dropped behind an ellipsis; the
// current crumb is always visible.
func crumbSpans(history []nav.HistoryEntry, width int) []crumbSpan {
	if width <= 0 || len(history) == 0 {
		return nil
	}
	sepW := runewidth.StringWidth(crumbSeparator)
	ellW := runewidth.StringWidth(crumbEllipsis) + sepW

	texts := make([]string, len(history))
	widths := make([]int, len(history))
	for i, e := range history {
		texts[i] = truncate(e.Name, maxCrumbWidth)
		widths[i] = runewidth.StringWidth(texts[i])
	}

	start := 0
	for start < len(history)-1 {
		total := 0
		if start > 0 {
			total = ellW
		}
		for i := start; i < len(history); i++ {
			if i > start {
				total += sepW
			}
			total += widths[i]
		}
		if total <= width {
			break
		}
		start++
	}

	spans := make([]crumbSpan, 0, len(history)-start)
	x := 0
	if start > 0 {
		x = ellW
	}
	for i := start; i < len(history); i++ {
		if i > start {
			x += sepW
		}
		if x >= width {
			break
		}
		w := widths[i]
		text := texts[i]
		if x+w > width {
			w = width - x
			text = truncate(text, w)
		}
		spans = append(spans, crumbSpan{index: i, x0: x, x1: x + w, text: text})
		x += w
	}
	return spans
}

// crumbIndexAt maps a cell on the crumb row to a history index, -1 for the
// gaps and separators.
func crumbIndexAt(spans []crumbSpan, x int) int {
	for _, s := range spans {
		if x >= s.x0 && x < s.x1 {
			return s.index
		}
	}
	return -1
}

// renderCrumbs draws the breadcrumb bar: muted ancestors, the current
// crumb highlighted, digit hints implied by position.
func (m Model) renderCrumbs(history []nav.HistoryEntry, spans []crumbSpan) string {
	t := m.theme
	var sb strings.Builder
	prevEnd := 0
	for i, s := range spans {
		if i == 0 && s.x0 > 0 {
			sb.WriteString(t.MutedText.Render(crumbEllipsis + crumbSeparator))
		} else if i > 0 {
			sb.WriteString(t.MutedText.Render(crumbSeparator))
		}
		if s.index == len(history)-1 {
			sb.WriteString(t.PrimaryBold.Render(s.text))
		} else {
			sb.WriteString(t.SecondaryText.Render(s.text))
		}
		prevEnd = s.x1
	}
	if pad := m.width - prevEnd; pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	return sb.String()
}

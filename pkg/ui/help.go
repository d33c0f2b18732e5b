package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# layerlens

Zoom into a layered map. Expandable nodes (◆) open a deeper layer; keep
zooming in to fall through, zoom out to climb back up the trail.

## Pointer

| Input | Action |
| ----- | ------ |
| Wheel up over a node | Progressive zoom into it |
| Wheel down | Zoom back out (crossing zero climbs one layer) |
| Click an expandable node | Auto-zoom until the layer flips |
| Click empty canvas | Settle the zoom in place |
| Hold left / right-click | Step back (reverse at zero) |
| Click a breadcrumb | Jump back to that layer |

## Keys

| Key | Action |
| --- | ------ |
| tab / arrows | Select node |
| enter | Animated dive into the selected node |
| + / - | Zoom the selected node in / out |
| esc / backspace | Step back (reverse at zero) |
| H | Straight home to the root layer |
| 1-9 | Jump to breadcrumb |
| c | Settle the zoom |
| y | Copy the breadcrumb path |
| e | Export a snapshot (SVG/PNG) |
| ? | This overlay |
| q | Quit |

Zooming a terminal node (●) does nothing, on purpose.
`

// renderHelpMarkdown renders the controls guide for the given width,
// falling back to the raw markdown if glamour cannot run.
func renderHelpMarkdown(width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	// Strip trailing whitespace/newlines that glamour adds
	return strings.TrimRight(out, "\n ")
}

// openHelp sizes the scroll viewport to the current window and fills it.
func (m *Model) openHelp() {
	vp := viewport.New(m.width, m.bodyHeight())
	vp.SetContent(renderHelpMarkdown(m.width - 4))
	m.helpView = vp
	m.showHelp = true
}

func (m Model) renderHelpOverlay() string {
	title := m.theme.Header.Render("layerlens · controls")
	hint := m.theme.MutedText.Render("  ↑/↓ scroll · esc close")
	return title + hint + "\n" + m.helpView.View()
}

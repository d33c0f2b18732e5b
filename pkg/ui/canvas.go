package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
	"github.com/vanderheijden86/layerlens/pkg/layout"
	"github.com/vanderheijden86/layerlens/pkg/nav"
)

// maxLabelWidth bounds a node label on the canvas, in cells.
const maxLabelWidth = 16

// badge is one node placed on the canvas: the styled label text and the
// cell rectangle it occupies. View paints badges and the mouse dispatcher
// hit-tests against the same slice, so the two can never disagree.
type badge struct {
	node     *atlas.Node
	x, y     int // top-left cell, canvas-relative
	width    int
	text     string
	selected bool
	zooming  bool
}

// placeBadges lays out the current layer's nodes on the canvas grid
// defined by snap.Viewport. Geometry comes from the layout engine; nothing
// is cached between frames.
func placeBadges(snap nav.Snapshot, selected int) []badge {
	vp := snap.Viewport
	if vp.Degenerate() || snap.Layer == nil {
		return nil
	}
	w, h := int(vp.Width), int(vp.Height)

	badges := make([]badge, 0, len(snap.Layer.Nodes))
	for i := range snap.Layer.Nodes {
		n := &snap.Layer.Nodes[i]
		text := badgeMarker(n, snap) + " " + truncate(n.Label, maxLabelWidth)
		bw := runewidth.StringWidth(text)
		if bw > w {
			bw = w
		}
		pos := layout.Position(n, vp)
		badges = append(badges, badge{
			node:     n,
			x:        clampInt(int(pos.X)-bw/2, 0, w-bw),
			y:        clampInt(int(pos.Y), 0, h-1),
			width:    bw,
			text:     text,
			selected: i == selected,
			zooming:  snap.Zooming == n,
		})
	}
	return badges
}

// badgeMarker picks the node glyph. The zooming node's marker thickens
// with NodeScale so the dive-in reads on a cell grid where true scaling
// cannot.
func badgeMarker(n *atlas.Node, snap nav.Snapshot) string {
	if snap.Zooming == n {
		switch s := layout.NodeScale(snap.Progress); {
		case s >= 5:
			return "◉"
		case s >= 2.5:
			return "◈"
		default:
			return "◆"
		}
	}
	if n.Expandable() {
		return "◆"
	}
	return "●"
}

// nodeAt returns the node whose badge covers the canvas-relative cell, or
// nil for empty canvas. Later badges win, matching paint order.
func nodeAt(badges []badge, x, y int) *atlas.Node {
	for i := len(badges) - 1; i >= 0; i-- {
		b := badges[i]
		if y == b.y && x >= b.x && x < b.x+b.width {
			return b.node
		}
	}
	return nil
}

// Grid cell owners; non-negative values index into the badge slice.
const (
	ownerBackground = -1
	ownerBanner     = -2
)

// renderCanvas paints the badges and the transition banner over the
// machine's background color, one styled run at a time.
func (m Model) renderCanvas(snap nav.Snapshot, badges []badge) string {
	w, h := m.width, m.canvasHeight()
	if w <= 0 || h <= 0 {
		return ""
	}

	grid := make([][]rune, h)
	owner := make([][]int, h)
	for y := 0; y < h; y++ {
		grid[y] = make([]rune, w)
		owner[y] = make([]int, w)
		for x := 0; x < w; x++ {
			grid[y][x] = ' '
			owner[y][x] = ownerBackground
		}
	}

	for i, b := range badges {
		paintText(grid, owner, b.x, b.y, b.text, i)
	}
	if banner := transitionBanner(snap); banner != "" {
		bw := runewidth.StringWidth(banner)
		x := clampInt((w-bw)/2, 0, w-1)
		paintText(grid, owner, x, h-1, banner, ownerBanner)
	}

	bg := ThemeBg(snap.Background)
	bgStyle := m.theme.Renderer.NewStyle().Background(bg)
	bannerStyle := m.theme.PrimaryBold.Background(bg)
	badgeStyles := make([]lipgloss.Style, len(badges))
	for i, b := range badges {
		badgeStyles[i] = m.badgeStyle(b, bg)
	}

	var sb strings.Builder
	for y := 0; y < h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		x := 0
		for x < w {
			run := owner[y][x]
			end := x
			var seg strings.Builder
			for end < w && owner[y][end] == run {
				if grid[y][end] != 0 {
					seg.WriteRune(grid[y][end])
				}
				end++
			}
			switch {
			case run >= 0:
				sb.WriteString(badgeStyles[run].Render(seg.String()))
			case run == ownerBanner:
				sb.WriteString(bannerStyle.Render(seg.String()))
			default:
				sb.WriteString(bgStyle.Render(seg.String()))
			}
			x = end
		}
	}
	return sb.String()
}

// paintText writes s starting at (x, y), advancing by rune display width.
// Continuation cells of wide runes are zeroed so the row stays aligned.
func paintText(grid [][]rune, owner [][]int, x, y int, s string, id int) {
	if y < 0 || y >= len(grid) {
		return
	}
	w := len(grid[y])
	col := x
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col < 0 || col+rw > w {
			break
		}
		grid[y][col] = r
		owner[y][col] = id
		for k := 1; k < rw; k++ {
			grid[y][col+k] = 0
			owner[y][col+k] = id
		}
		col += rw
	}
}

func (m Model) badgeStyle(b badge, bg lipgloss.TerminalColor) lipgloss.Style {
	t := m.theme
	switch {
	case b.selected:
		return t.NodeSelected
	case b.zooming:
		return t.NodeZooming.Background(bg)
	default:
		return t.Renderer.NewStyle().Foreground(t.NodeColor(b.node.Color)).Background(bg)
	}
}

// transitionBanner is the one-line preview strip at the canvas bottom: the
// next layer's name materializing with the reveal fraction mid-zoom, or a
// direction hint while an animated transition plays.
func transitionBanner(snap nav.Snapshot) string {
	if snap.Transitioning {
		if snap.Reverse {
			return "⟲ rewinding"
		}
		return "✦ diving in"
	}
	if snap.Next == nil {
		return ""
	}
	frac := layout.DeepReveal(snap.Progress)
	if snap.LayerIndex == 0 {
		frac = layout.RootReveal(snap.Progress)
	}
	if frac <= 0 {
		return ""
	}
	return fmt.Sprintf("✦ %s %d%%", snap.Next.Name, int(frac*100))
}

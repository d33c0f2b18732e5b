package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
	"github.com/vanderheijden86/layerlens/pkg/nav"
)

func TestPlaceBadgesGeometry(t *testing.T) {
	m, _ := newTestModel()
	badges := placeBadges(m.machine.Snapshot(), 0)

	if len(badges) != 1 {
		t.Fatalf("expected 1 badge on the root layer, got %d", len(badges))
	}
	b := badges[0]
	if b.node.ID != "water-cycle" {
		t.Fatalf("expected water-cycle badge, got %q", b.node.ID)
	}
	if !strings.Contains(b.text, "water cycle") {
		t.Fatalf("expected label in badge text, got %q", b.text)
	}
	if got := runewidth.StringWidth(b.text); b.width != got {
		t.Fatalf("expected width %d to match text, got %d", got, b.width)
	}
	// Node at (50, 50) of a 120x37 canvas: centered on column 60, row 18.
	if want := 60 - b.width/2; b.x != want {
		t.Fatalf("expected x %d, got %d", want, b.x)
	}
	if b.y != 18 {
		t.Fatalf("expected y 18, got %d", b.y)
	}
	if !b.selected {
		t.Fatalf("expected badge 0 marked selected")
	}
}

func TestPlaceBadgesEmptySnapshot(t *testing.T) {
	if got := placeBadges(nav.Snapshot{}, 0); got != nil {
		t.Fatalf("expected nil badges without a layer, got %v", got)
	}
}

func TestBadgeMarkerGlyphs(t *testing.T) {
	a := atlas.Demo()
	root := &a.Layers[0].Nodes[0]
	leaf := &a.Layers[1].Nodes[0]

	tests := []struct {
		name string
		node *atlas.Node
		snap nav.Snapshot
		want string
	}{
		{"expandable at rest", root, nav.Snapshot{}, "◆"},
		{"terminal at rest", leaf, nav.Snapshot{}, "●"},
		{"zooming small", root, nav.Snapshot{Zooming: root, Progress: 10}, "◆"},
		{"zooming mid", root, nav.Snapshot{Zooming: root, Progress: 20}, "◈"},
		{"zooming large", root, nav.Snapshot{Zooming: root, Progress: 50}, "◉"},
	}
	for _, tt := range tests {
		if got := badgeMarker(tt.node, tt.snap); got != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestNodeAtHitTesting(t *testing.T) {
	m, _ := newTestModel()
	badges := placeBadges(m.machine.Snapshot(), 0)
	b := badges[0]

	if got := nodeAt(badges, b.x, b.y); got != b.node {
		t.Fatalf("expected hit at badge origin, got %v", got)
	}
	if got := nodeAt(badges, b.x+b.width-1, b.y); got != b.node {
		t.Fatalf("expected hit at badge last cell, got %v", got)
	}
	if got := nodeAt(badges, b.x+b.width, b.y); got != nil {
		t.Fatalf("expected miss one past the badge, got %q", got.ID)
	}
	if got := nodeAt(badges, b.x, b.y+1); got != nil {
		t.Fatalf("expected miss on the next row, got %q", got.ID)
	}
	if got := nodeAt(nil, 0, 0); got != nil {
		t.Fatalf("expected miss on empty badge set, got %q", got.ID)
	}
}

func TestNodeAtOverlapLaterWins(t *testing.T) {
	n1 := &atlas.Node{ID: "under"}
	n2 := &atlas.Node{ID: "over"}
	badges := []badge{
		{node: n1, x: 0, y: 0, width: 5},
		{node: n2, x: 3, y: 0, width: 5},
	}
	if got := nodeAt(badges, 4, 0); got != n2 {
		t.Fatalf("expected the later badge to win the overlap, got %q", got.ID)
	}
	if got := nodeAt(badges, 2, 0); got != n1 {
		t.Fatalf("expected the underlying badge outside the overlap, got %q", got.ID)
	}
}

func TestTransitionBanner(t *testing.T) {
	a := atlas.Demo()

	tests := []struct {
		name string
		snap nav.Snapshot
		want string
	}{
		{"reverse animation", nav.Snapshot{Transitioning: true, Reverse: true}, "⟲ rewinding"},
		{"forward animation", nav.Snapshot{Transitioning: true}, "✦ diving in"},
		{"no target", nav.Snapshot{Progress: 50}, ""},
		{"root reveal midpoint", nav.Snapshot{LayerIndex: 0, Progress: 42, Next: &a.Layers[1]}, "✦ water cycle 50%"},
		{"deep below reveal floor", nav.Snapshot{LayerIndex: 1, Progress: 10, Next: &a.Layers[2]}, ""},
		{"deep reveal midpoint", nav.Snapshot{LayerIndex: 1, Progress: 50, Next: &a.Layers[2]}, "✦ 4 layers 50%"},
	}
	for _, tt := range tests {
		if got := transitionBanner(tt.snap); got != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestRenderCanvasDimensions(t *testing.T) {
	m, _ := newTestModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = updated.(Model)

	snap := m.machine.Snapshot()
	out := m.renderCanvas(snap, placeBadges(snap, m.selected))
	lines := strings.Split(out, "\n")

	if want := m.canvasHeight(); len(lines) != want {
		t.Fatalf("expected %d canvas rows, got %d", want, len(lines))
	}
	for i, line := range lines {
		if got := lipgloss.Width(line); got != 60 {
			t.Fatalf("expected row %d width 60, got %d", i, got)
		}
	}
	if !strings.Contains(out, "water cycle") {
		t.Fatalf("expected the root badge on the canvas")
	}
}

func TestRenderCanvasBannerRow(t *testing.T) {
	m, _ := newTestModel()
	m.machine.Activate(m.SelectedNode())

	snap := m.machine.Snapshot()
	if !snap.Transitioning {
		t.Fatalf("expected a transition in flight")
	}
	out := m.renderCanvas(snap, placeBadges(snap, m.selected))
	lines := strings.Split(out, "\n")
	if got := lines[len(lines)-1]; !strings.Contains(got, "diving in") {
		t.Fatalf("expected the banner on the last row, got %q", got)
	}
}

package layout

import (
	"fmt"
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
)

const scaleTolerance = 1e-9

func TestScale_TrivialInputs(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 1000}

	if s := Scale(vp, nil, 80); s != 1.0 {
		t.Errorf("expected scale 1.0 for empty layer, got %v", s)
	}
	one := []atlas.Node{{ID: "a", X: 50, Y: 50}}
	if s := Scale(vp, one, 80); s != 1.0 {
		t.Errorf("expected scale 1.0 for single node, got %v", s)
	}
	two := []atlas.Node{{ID: "a", X: 10, Y: 10}, {ID: "b", X: 90, Y: 90}}
	if s := Scale(Viewport{}, two, 80); s != 1.0 {
		t.Errorf("expected scale 1.0 for degenerate viewport, got %v", s)
	}
	if s := Scale(vp, two, 0); s != 1.0 {
		t.Errorf("expected scale 1.0 for zero base diameter, got %v", s)
	}
}

func TestScale_WellSeparated(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 1000}
	nodes := []atlas.Node{
		{ID: "a", X: 20, Y: 20},
		{ID: "b", X: 80, Y: 20},
		{ID: "c", X: 50, Y: 80},
	}
	if s := Scale(vp, nodes, 80); s != 1.0 {
		t.Errorf("expected scale 1.0 for well-separated nodes, got %v", s)
	}
}

func TestScale_CloseNeighbors(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 1000}
	// 70 units apart; required separation 80*1.2 = 96.
	nodes := []atlas.Node{
		{ID: "a", X: 40, Y: 50},
		{ID: "b", X: 47, Y: 50},
	}
	got := Scale(vp, nodes, 80)
	want := 70.0 / 96.0
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("expected scale %v, got %v", want, got)
	}
}

func TestScale_EdgeClip(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 1000}
	// Node a sits 20 units from the left edge; at scale 1 its radius is 40,
	// so it must shrink to 2*20*0.95/80 = 0.475.
	nodes := []atlas.Node{
		{ID: "a", X: 2, Y: 50},
		{ID: "b", X: 80, Y: 50},
	}
	got := Scale(vp, nodes, 80)
	if math.Abs(got-0.475) > 1e-6 {
		t.Errorf("expected scale 0.475, got %v", got)
	}
}

func TestScale_Floor(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 1000}
	nodes := []atlas.Node{
		{ID: "a", X: 50, Y: 50},
		{ID: "b", X: 50.1, Y: 50},
	}
	if s := Scale(vp, nodes, 80); s != MinScale {
		t.Errorf("expected floor %v for nearly coincident nodes, got %v", MinScale, s)
	}
}

func TestScale_CoincidentNodes(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 1000}
	// Identical positions: no scale separates them, and they must not
	// drag the result to the floor on their own.
	nodes := []atlas.Node{
		{ID: "a", X: 50, Y: 50},
		{ID: "b", X: 50, Y: 50},
	}
	if s := Scale(vp, nodes, 80); s != 1.0 {
		t.Errorf("expected coincident pair to contribute nothing, got %v", s)
	}
}

func drawNodes(t *rapid.T, min, max int) []atlas.Node {
	count := rapid.IntRange(min, max).Draw(t, "count")
	nodes := make([]atlas.Node, count)
	for i := range nodes {
		nodes[i] = atlas.Node{
			ID: fmt.Sprintf("n%d", i),
			X:  rapid.Float64Range(0, 100).Draw(t, fmt.Sprintf("x%d", i)),
			Y:  rapid.Float64Range(0, 100).Draw(t, fmt.Sprintf("y%d", i)),
		}
	}
	return nodes
}

func TestScale_BoundsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vp := Viewport{
			Width:  rapid.Float64Range(1, 4000).Draw(t, "w"),
			Height: rapid.Float64Range(1, 4000).Draw(t, "h"),
		}
		nodes := drawNodes(t, 0, 10)
		base := rapid.Float64Range(1, 300).Draw(t, "base")

		s := Scale(vp, nodes, base)
		if s < MinScale-scaleTolerance || s > MaxScale+scaleTolerance {
			t.Fatalf("scale %v outside [%v, %v]", s, MinScale, MaxScale)
		}
	})
}

func TestScale_MonotoneInViewportProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vp := Viewport{
			Width:  rapid.Float64Range(100, 2000).Draw(t, "w"),
			Height: rapid.Float64Range(100, 2000).Draw(t, "h"),
		}
		k := rapid.Float64Range(1, 4).Draw(t, "k")
		nodes := drawNodes(t, 2, 8)
		base := rapid.Float64Range(10, 200).Draw(t, "base")

		small := Scale(vp, nodes, base)
		large := Scale(Viewport{Width: vp.Width * k, Height: vp.Height * k}, nodes, base)
		if large < small-1e-6 {
			t.Fatalf("growing the viewport shrank the scale: %v -> %v (k=%v)", small, large, k)
		}
	})
}

func TestScale_NoOverlapProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vp := Viewport{
			Width:  rapid.Float64Range(200, 3000).Draw(t, "w"),
			Height: rapid.Float64Range(200, 3000).Draw(t, "h"),
		}
		nodes := drawNodes(t, 2, 10)
		base := rapid.Float64Range(10, 250).Draw(t, "base")

		s := Scale(vp, nodes, base)
		if s == MinScale {
			// Legibility floor engaged; separation is no longer promised.
			return
		}
		required := base * s * SeparationFactor
		for i := 0; i < len(nodes); i++ {
			pi := Position(&nodes[i], vp)
			for j := i + 1; j < len(nodes); j++ {
				d := Distance(pi, Position(&nodes[j], vp))
				if d == 0 {
					continue // coincident content, unscalable by contract
				}
				if d < required-1e-6 {
					t.Fatalf("nodes %d and %d separated by %v, need %v at scale %v",
						i, j, d, required, s)
				}
			}
		}
	})
}

func TestScale_Deterministic(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 800}
	nodes := atlas.Demo().Layers[1].Nodes
	a := Scale(vp, nodes, 80)
	b := Scale(vp, nodes, 80)
	if a != b {
		t.Errorf("expected identical results across calls, got %v and %v", a, b)
	}
}

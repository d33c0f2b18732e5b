package testutil

import (
	"testing"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
)

func TestGeneratedAtlas_Valid(t *testing.T) {
	a := NewDefaultGenerator().Atlas()

	if err := a.Validate(); err != nil {
		t.Fatalf("generated atlas invalid: %v", err)
	}
	AssertLayerCount(t, &a, 3)
	AssertNoDanglingRefs(t, &a)
}

func TestGeneratedAtlas_HubsLinkDown(t *testing.T) {
	a := NewDefaultGenerator().Atlas()

	AssertResolves(t, &a, "layer-1", "hub-1", 1)
	AssertResolves(t, &a, "layer-2", "hub-2", 2)

	// Hubs carry the color of the layer they open.
	hub := FindNode(&a, "layer-1", "hub-1")
	if hub == nil {
		t.Fatal("hub-1 not found on layer-1")
	}
	AssertEqual(t, hub.Color, a.Layers[1].Color)

	// The deepest layer has no expandable nodes.
	deepest := a.Layers[len(a.Layers)-1]
	for i := range deepest.Nodes {
		if deepest.Nodes[i].Expandable() {
			t.Errorf("deepest layer node %q should be terminal", deepest.Nodes[i].ID)
		}
	}
}

func TestGeneratedAtlas_Deterministic(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	first := NewGenerator(cfg).Atlas()
	second := NewGenerator(cfg).Atlas()

	if len(first.Layers) != len(second.Layers) {
		t.Fatalf("layer counts differ: %d vs %d", len(first.Layers), len(second.Layers))
	}
	for i := range first.Layers {
		fn, sn := first.Layers[i].Nodes, second.Layers[i].Nodes
		if len(fn) != len(sn) {
			t.Fatalf("layer %d node counts differ", i)
		}
		for j := range fn {
			if fn[j] != sn[j] {
				t.Errorf("layer %d node %d differs: %+v vs %+v", i, j, fn[j], sn[j])
			}
		}
	}
}

func TestChain(t *testing.T) {
	gen := NewDefaultGenerator()

	tests := []struct {
		name  string
		depth int
	}{
		{"chain_1", 1},
		{"chain_2", 2},
		{"chain_5", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := gen.Chain(tt.depth)

			if err := a.Validate(); err != nil {
				t.Fatalf("chain atlas invalid: %v", err)
			}
			AssertLayerCount(t, &a, tt.depth)
			AssertNoDanglingRefs(t, &a)

			// Every layer but the last links exactly one level down.
			for d := 0; d < tt.depth-1; d++ {
				n := &a.Layers[d].Nodes[0]
				idx, ok := a.ResolveChild(n)
				if !ok || idx != d+1 {
					t.Errorf("layer %d link resolves to (%d, %v), want (%d, true)", d, idx, ok, d+1)
				}
			}
			last := a.Layers[tt.depth-1].Nodes[0]
			if last.Expandable() {
				t.Error("last chain link should be terminal")
			}
		})
	}
}

func TestPacked(t *testing.T) {
	a := NewDefaultGenerator().Packed(8, 5)

	if err := a.Validate(); err != nil {
		t.Fatalf("packed atlas invalid: %v", err)
	}
	AssertLayerCount(t, &a, 1)

	if len(a.Layers[0].Nodes) != 8 {
		t.Fatalf("expected 8 nodes, got %d", len(a.Layers[0].Nodes))
	}
	for _, n := range a.Layers[0].Nodes {
		if n.X < 45 || n.X > 55 || n.Y < 45 || n.Y > 55 {
			t.Errorf("node %q at (%v, %v) outside ±5 of center", n.ID, n.X, n.Y)
		}
		if n.Expandable() {
			t.Errorf("packed node %q should be terminal", n.ID)
		}
	}
}

func TestWriteAtlasFile_RoundTrip(t *testing.T) {
	a := NewDefaultGenerator().Atlas()

	path := WriteAtlasFile(t, t.TempDir(), a)

	loaded, err := atlas.Load(path)
	AssertNoError(t, err)
	AssertEqual(t, loaded.Title, a.Title)
	AssertLayerCount(t, loaded, len(a.Layers))
}

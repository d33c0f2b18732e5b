package atlas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDemo(t *testing.T) {
	a := Demo()

	if a.Title != "The Water Cycle" {
		t.Errorf("expected demo title 'The Water Cycle', got %q", a.Title)
	}
	if len(a.Layers) != 3 {
		t.Fatalf("expected 3 layers, got %d", len(a.Layers))
	}
	if a.Root().ID != "layer-1" {
		t.Errorf("expected root layer-1, got %q", a.Root().ID)
	}

	wc, ok := a.Root().Node("water-cycle")
	if !ok {
		t.Fatal("root layer is missing the water-cycle node")
	}
	if !wc.Expandable() {
		t.Error("water-cycle node should be expandable")
	}
	if wc.Color != "#7c3aed" {
		t.Errorf("expected water-cycle color #7c3aed, got %q", wc.Color)
	}

	idx, ok := a.ResolveChild(wc)
	if !ok {
		t.Fatal("water-cycle child layer should resolve")
	}
	if a.Layers[idx].ID != "layer-2" {
		t.Errorf("expected water-cycle to resolve to layer-2, got %q", a.Layers[idx].ID)
	}

	if refs := a.DanglingRefs(); len(refs) != 0 {
		t.Errorf("demo atlas should have no dangling refs, got %v", refs)
	}
}

func TestParse_Valid(t *testing.T) {
	data := `
title: Test
background: "#000000"
layers:
  - id: top
    name: Top
    color: "#111111"
    nodes:
      - id: a
        label: A
        x: 10
        y: 20
        children: deep
  - id: deep
    name: Deep
    color: "#222222"
    nodes:
      - id: b
        label: B
        x: 50
        y: 50
`
	a, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(a.Layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(a.Layers))
	}
	n, ok := a.Layers[0].Node("a")
	if !ok {
		t.Fatal("node a not found")
	}
	if n.X != 10 || n.Y != 20 {
		t.Errorf("expected node a at (10, 20), got (%v, %v)", n.X, n.Y)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("layers: [")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		a    Atlas
		want error
	}{
		{
			name: "no layers",
			a:    Atlas{},
			want: ErrNoLayers,
		},
		{
			name: "empty layer id",
			a:    Atlas{Layers: []Layer{{ID: ""}}},
			want: ErrEmptyLayerID,
		},
		{
			name: "duplicate layer id",
			a:    Atlas{Layers: []Layer{{ID: "x"}, {ID: "x"}}},
			want: ErrDuplicateLayerID,
		},
		{
			name: "duplicate node id",
			a: Atlas{Layers: []Layer{{
				ID:    "x",
				Nodes: []Node{{ID: "n", X: 1, Y: 1}, {ID: "n", X: 2, Y: 2}},
			}}},
			want: ErrDuplicateNodeID,
		},
		{
			name: "coordinate out of range",
			a: Atlas{Layers: []Layer{{
				ID:    "x",
				Nodes: []Node{{ID: "n", X: 101, Y: 50}},
			}}},
			want: ErrCoordinateRange,
		},
		{
			name: "negative coordinate",
			a: Atlas{Layers: []Layer{{
				ID:    "x",
				Nodes: []Node{{ID: "n", X: 50, Y: -1}},
			}}},
			want: ErrCoordinateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidate_DanglingRefIsLegal(t *testing.T) {
	a := Atlas{Layers: []Layer{{
		ID:    "top",
		Nodes: []Node{{ID: "n", X: 50, Y: 50, Children: "missing"}},
	}}}

	if err := a.Validate(); err != nil {
		t.Fatalf("dangling reference should pass validation, got: %v", err)
	}

	refs := a.DanglingRefs()
	if len(refs) != 1 {
		t.Fatalf("expected 1 dangling ref, got %d", len(refs))
	}
	if refs[0] != "n -> missing" {
		t.Errorf("expected 'n -> missing', got %q", refs[0])
	}
}

func TestResolveChild(t *testing.T) {
	a := Demo()

	terminal, ok := a.Layers[1].Node("evaporation")
	if !ok {
		t.Fatal("evaporation node not found")
	}
	if _, ok := a.ResolveChild(terminal); ok {
		t.Error("terminal node should not resolve a child layer")
	}

	if _, ok := a.ResolveChild(nil); ok {
		t.Error("nil node should not resolve")
	}

	dangling := &Node{ID: "x", Children: "nowhere"}
	if _, ok := a.ResolveChild(dangling); ok {
		t.Error("dangling reference should not resolve")
	}
}

func TestLayerIndex(t *testing.T) {
	a := Demo()

	idx, ok := a.LayerIndex("layer-3")
	if !ok {
		t.Fatal("layer-3 should exist")
	}
	if idx != 2 {
		t.Errorf("expected layer-3 at index 2, got %d", idx)
	}

	if _, ok := a.LayerIndex("nope"); ok {
		t.Error("unknown layer id should not resolve")
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atlas.yaml")

	content := `
layers:
  - id: only
    name: Only
    color: "#333333"
    nodes:
      - id: solo
        label: Solo
        x: 50
        y: 50
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if a.Root().ID != "only" {
		t.Errorf("expected root 'only', got %q", a.Root().ID)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/atlas.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

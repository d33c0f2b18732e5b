// Package atlas defines the static content model for layerlens: a tree of
// layers, each holding positioned nodes, where an expandable node links to
// the layer one level deeper.
//
// The atlas is immutable at runtime. Navigation never mutates it; a file
// reload replaces the whole value and resets the session.
package atlas

import (
	"errors"
	"fmt"
)

// Sentinel validation errors. Callers branch with errors.Is.
var (
	ErrNoLayers         = errors.New("atlas has no layers")
	ErrEmptyLayerID     = errors.New("layer has empty id")
	ErrDuplicateLayerID = errors.New("duplicate layer id")
	ErrDuplicateNodeID  = errors.New("duplicate node id in layer")
	ErrCoordinateRange  = errors.New("node coordinate outside [0,100]")
)

// Atlas is the whole layer tree. The slice position of a layer is its
// index; index 0 is always the root layer.
type Atlas struct {
	Title      string  `yaml:"title" json:"title"`
	Background string  `yaml:"background" json:"background"`
	Layers     []Layer `yaml:"layers" json:"layers"`
}

// Layer is one zoom level: a named, colored plane of nodes.
type Layer struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"`
	Nodes []Node `yaml:"nodes" json:"nodes"`
}

// Node is a positioned item on a layer. X and Y are percentages of the
// viewport (0..100). Children names the layer one level deeper; empty
// means the node is terminal.
type Node struct {
	ID       string  `yaml:"id" json:"id"`
	Label    string  `yaml:"label" json:"label"`
	X        float64 `yaml:"x" json:"x"`
	Y        float64 `yaml:"y" json:"y"`
	Color    string  `yaml:"color,omitempty" json:"color,omitempty"`
	Children string  `yaml:"children,omitempty" json:"children,omitempty"`
}

// Expandable reports whether zooming into the node leads anywhere.
func (n *Node) Expandable() bool { return n.Children != "" }

// Root returns the root layer. Only valid on a validated atlas.
func (a *Atlas) Root() *Layer { return &a.Layers[0] }

// LayerIndex resolves a layer ID to its index.
func (a *Atlas) LayerIndex(id string) (int, bool) {
	for i := range a.Layers {
		if a.Layers[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// ResolveChild resolves the child layer of a node. ok is false for terminal
// nodes and for dangling references; navigation treats both as no-ops.
func (a *Atlas) ResolveChild(n *Node) (int, bool) {
	if n == nil || !n.Expandable() {
		return 0, false
	}
	return a.LayerIndex(n.Children)
}

// Node looks a node up by ID within the layer.
func (l *Layer) Node(id string) (*Node, bool) {
	for i := range l.Nodes {
		if l.Nodes[i].ID == id {
			return &l.Nodes[i], true
		}
	}
	return nil, false
}

// Validate checks structural integrity: at least one layer, non-empty and
// unique layer IDs, unique node IDs within each layer, coordinates in
// range. A Children reference naming a missing layer is NOT an error here:
// dangling references are legal content that navigation no-ops on (see
// DanglingRefs for diagnostics).
func (a *Atlas) Validate() error {
	if len(a.Layers) == 0 {
		return ErrNoLayers
	}
	seen := make(map[string]struct{}, len(a.Layers))
	for i := range a.Layers {
		l := &a.Layers[i]
		if l.ID == "" {
			return fmt.Errorf("layer %d: %w", i, ErrEmptyLayerID)
		}
		if _, dup := seen[l.ID]; dup {
			return fmt.Errorf("layer %q: %w", l.ID, ErrDuplicateLayerID)
		}
		seen[l.ID] = struct{}{}

		ids := make(map[string]struct{}, len(l.Nodes))
		for j := range l.Nodes {
			n := &l.Nodes[j]
			if _, dup := ids[n.ID]; dup {
				return fmt.Errorf("layer %q node %q: %w", l.ID, n.ID, ErrDuplicateNodeID)
			}
			ids[n.ID] = struct{}{}
			if n.X < 0 || n.X > 100 || n.Y < 0 || n.Y > 100 {
				return fmt.Errorf("layer %q node %q at (%.1f, %.1f): %w",
					l.ID, n.ID, n.X, n.Y, ErrCoordinateRange)
			}
		}
	}
	return nil
}

// DanglingRefs lists expandable nodes whose child layer does not exist,
// formatted as "nodeID -> layerID". Diagnostics only.
func (a *Atlas) DanglingRefs() []string {
	var refs []string
	for i := range a.Layers {
		for j := range a.Layers[i].Nodes {
			n := &a.Layers[i].Nodes[j]
			if !n.Expandable() {
				continue
			}
			if _, ok := a.LayerIndex(n.Children); !ok {
				refs = append(refs, fmt.Sprintf("%s -> %s", n.ID, n.Children))
			}
		}
	}
	return refs
}

// Package testutil provides assertion helpers and deterministic atlas
// generators for tests and local tooling. All generators produce the
// same output for the same seed.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
)

// palette cycles through layer colors so generated atlases render with
// visible layer changes.
var palette = []string{
	"#1e293b", "#7c3aed", "#0e7490", "#b45309", "#15803d", "#be123c",
}

// GeneratorConfig controls atlas generation.
type GeneratorConfig struct {
	Seed          int64  // Random seed for determinism (0 = use current time)
	Depth         int    // Number of layers (default: 3)
	NodesPerLayer int    // Nodes on each layer (default: 5)
	Title         string // Atlas title (default: "generated atlas")
}

// DefaultGeneratorConfig returns a config suitable for most tests.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:          42, // Deterministic
		Depth:         3,
		NodesPerLayer: 5,
		Title:         "generated atlas",
	}
}

// Generator creates atlas fixtures with various shapes.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// NewGenerator creates a Generator with the given config.
func NewGenerator(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.Depth <= 0 {
		cfg.Depth = 3
	}
	if cfg.NodesPerLayer <= 0 {
		cfg.NodesPerLayer = 5
	}
	if cfg.Title == "" {
		cfg.Title = "generated atlas"
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefaultGenerator creates a Generator with default config.
func NewDefaultGenerator() *Generator {
	return NewGenerator(DefaultGeneratorConfig())
}

// ============================================================================
// Atlas shape generators
// ============================================================================

// Atlas builds a layered tree: every layer except the deepest carries
// one expandable hub node linking one level down, surrounded by
// terminal nodes at scattered positions.
func (g *Generator) Atlas() atlas.Atlas {
	a := atlas.Atlas{
		Title:      g.cfg.Title,
		Background: "#0f172a",
	}

	for d := 1; d <= g.cfg.Depth; d++ {
		layer := atlas.Layer{
			ID:    fmt.Sprintf("layer-%d", d),
			Name:  fmt.Sprintf("level %d", d),
			Color: palette[(d-1)%len(palette)],
		}

		if d < g.cfg.Depth {
			hub := atlas.Node{
				ID:       fmt.Sprintf("hub-%d", d),
				Label:    fmt.Sprintf("deeper %d", d),
				X:        g.jitter(50, 10),
				Y:        g.jitter(50, 10),
				Color:    palette[d%len(palette)],
				Children: fmt.Sprintf("layer-%d", d+1),
			}
			layer.Nodes = append(layer.Nodes, hub)
		}

		for len(layer.Nodes) < g.cfg.NodesPerLayer {
			i := len(layer.Nodes)
			layer.Nodes = append(layer.Nodes, atlas.Node{
				ID:    fmt.Sprintf("node-%d-%d", d, i),
				Label: fmt.Sprintf("item %d.%d", d, i),
				X:     g.coord(),
				Y:     g.coord(),
			})
		}

		a.Layers = append(a.Layers, layer)
	}

	return a
}

// Chain builds the thinnest possible atlas: depth layers, each holding
// exactly one node, expandable until the deepest layer. Useful for
// deep-navigation tests.
func (g *Generator) Chain(depth int) atlas.Atlas {
	if depth < 1 {
		depth = 1
	}

	a := atlas.Atlas{
		Title:      fmt.Sprintf("chain of %d layers", depth),
		Background: "#0f172a",
	}

	for d := 1; d <= depth; d++ {
		n := atlas.Node{
			ID:    fmt.Sprintf("link-%d", d),
			Label: fmt.Sprintf("link %d", d),
			X:     50,
			Y:     50,
		}
		if d < depth {
			n.Children = fmt.Sprintf("layer-%d", d+1)
			n.Color = palette[d%len(palette)]
		}
		a.Layers = append(a.Layers, atlas.Layer{
			ID:    fmt.Sprintf("layer-%d", d),
			Name:  fmt.Sprintf("level %d", d),
			Color: palette[(d-1)%len(palette)],
			Nodes: []atlas.Node{n},
		})
	}

	return a
}

// Packed builds a single-layer atlas with count terminal nodes crowded
// within spread percent of the center. Exercises collision scaling.
func (g *Generator) Packed(count int, spread float64) atlas.Atlas {
	if count < 1 {
		count = 1
	}
	if spread <= 0 {
		spread = 5
	}

	layer := atlas.Layer{
		ID:    "layer-1",
		Name:  "packed",
		Color: palette[0],
	}
	for i := 0; i < count; i++ {
		layer.Nodes = append(layer.Nodes, atlas.Node{
			ID:    fmt.Sprintf("packed-%d", i),
			Label: fmt.Sprintf("item %d", i),
			X:     g.jitter(50, spread),
			Y:     g.jitter(50, spread),
		})
	}

	return atlas.Atlas{
		Title:      fmt.Sprintf("%d packed nodes", count),
		Background: "#0f172a",
		Layers:     []atlas.Layer{layer},
	}
}

// coord returns a random coordinate away from the edges.
func (g *Generator) coord() float64 {
	return round1(10 + g.rng.Float64()*80)
}

// jitter returns center displaced by up to ±spread, clamped to [0,100].
func (g *Generator) jitter(center, spread float64) float64 {
	v := center + (g.rng.Float64()*2-1)*spread
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return round1(v)
}

// round1 keeps generated YAML tidy.
func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

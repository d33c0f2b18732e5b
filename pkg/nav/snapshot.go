package nav

import (
	"github.com/vanderheijden86/layerlens/pkg/atlas"
	"github.com/vanderheijden86/layerlens/pkg/layout"
)

// Snapshot is the per-frame contract handed to the presentation layer, the
// exporters, and the robot output. It is a value copy: mutating the
// machine after Snapshot returns does not affect a snapshot already taken.
// Rendering is one-way; nothing from a Snapshot ever feeds back into the
// machine.
type Snapshot struct {
	// Current layer and its neighbors for preview rendering. Previous is
	// the layer beneath the top crumb (nil at root); Next is the child of
	// the zooming node (nil when idle, rewinding, or dangling).
	LayerIndex int          `json:"layer_index"`
	Layer      *atlas.Layer `json:"layer"`
	Previous   *atlas.Layer `json:"previous,omitempty"`
	Next       *atlas.Layer `json:"next,omitempty"`

	Progress float64     `json:"progress"`
	Zooming  *atlas.Node `json:"zooming,omitempty"`
	Rewind   bool        `json:"rewind"`

	Transitioning bool `json:"transitioning"`
	Reverse       bool `json:"reverse"`
	Silent        bool `json:"silent"`

	Background string         `json:"background"`
	History    []HistoryEntry `json:"history"`

	Viewport    layout.Viewport `json:"viewport"`
	Scale       float64         `json:"scale"`
	MaxProgress float64         `json:"max_progress"`
	Threshold   float64         `json:"threshold"`
}

// Snapshot derives the current render state. Scale and bounds are computed
// here, from the live viewport, on every call.
func (m *Machine) Snapshot() Snapshot {
	history := make([]HistoryEntry, len(m.history))
	copy(history, m.history)

	layer := m.CurrentLayer()
	s := Snapshot{
		LayerIndex:    m.current,
		Layer:         layer,
		Progress:      m.progress,
		Zooming:       m.zooming,
		Rewind:        m.RewindMode(),
		Transitioning: m.transitioning,
		Reverse:       m.reverse,
		Silent:        m.silent,
		Background:    m.background,
		History:       history,
		Viewport:      m.viewport,
		Scale:         layout.Scale(m.viewport, layer.Nodes, m.opts.BaseDiameter),
		MaxProgress:   m.Bound(),
		Threshold:     m.Threshold(),
	}
	if len(m.history) > 1 {
		s.Previous = &m.atlas.Layers[m.history[len(m.history)-2].LayerIndex]
	}
	if idx, ok := m.atlas.ResolveChild(m.zooming); ok && idx != m.current {
		s.Next = &m.atlas.Layers[idx]
	}
	return s
}

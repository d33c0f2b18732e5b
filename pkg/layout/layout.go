// Package layout holds the pure geometry of the explorer: the responsive
// collision-avoiding node scale, the viewport-derived zoom bound, and the
// zoom-to-scale formulas shared by the terminal view and the exporters.
//
// Everything here is a pure function of its arguments. Nothing is cached:
// callers re-derive values from the current viewport on every use, so
// resizes are correct by construction.
package layout

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
)

// Viewport is the drawable area, in whatever unit the caller works in
// (terminal cells for the TUI, pixels for export).
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Degenerate reports whether the viewport has no drawable area.
func (v Viewport) Degenerate() bool { return v.Width <= 0 || v.Height <= 0 }

// MinDim returns the smaller viewport dimension.
func (v Viewport) MinDim() float64 {
	if v.Width < v.Height {
		return v.Width
	}
	return v.Height
}

// Position maps a node's percentage coordinates onto the viewport.
func Position(n *atlas.Node, vp Viewport) r2.Vec {
	return r2.Vec{X: n.X / 100 * vp.Width, Y: n.Y / 100 * vp.Height}
}

// Distance is the Euclidean distance between two positions.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(a.Sub(b))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

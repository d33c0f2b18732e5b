package layout

// Scale bounds and spacing requirements for a layer's nodes.
const (
	// MinScale keeps nodes legible even when the layer is crowded; below
	// this, shrinking further helps nobody.
	MinScale = 0.3
	// MaxScale: nodes never grow beyond their configured base size at rest.
	MaxScale = 1.0
	// SeparationFactor is the required center distance between two nodes,
	// as a multiple of their (scaled) diameter.
	SeparationFactor = 1.2
	// EdgeSafety shrinks the edge-fit radius by 5% so nodes do not sit
	// flush against the viewport border.
	EdgeSafety = 0.95
)

// Scale computes the shared scale factor for a layer's nodes so that no two
// nodes overlap and none is clipped by the viewport.
//
// Two passes over the node positions (percentage coordinates mapped onto
// the viewport):
//
//  1. Pairwise: every pair must be separated by at least
//     baseDiameter*SeparationFactor. A closer pair contributes the
//     candidate d/separation; the smallest candidate wins. Coincident
//     pairs (d == 0) contribute nothing; no scale can separate them.
//  2. Edge fit: with the scale reduced so far, each node's radius is
//     checked against its distance to all four viewport edges, shrinking
//     further (with the EdgeSafety margin) when the node would be clipped.
//
// The result is clamped to [MinScale, MaxScale]. A single node, an empty
// layer, or a degenerate viewport scales at 1.0. Quadratic in the node
// count, which stays trivial at the layer sizes this renders (≤ 10).
func Scale(vp Viewport, nodes []atlas.Node, baseDiameter float64) float64 {
	if len(nodes) <= 1 || vp.Degenerate() || baseDiameter <= 0 {
		return MaxScale
	}

	scale := MaxScale
	separation := baseDiameter * SeparationFactor
	for i := 0; i < len(nodes); i++ {
		pi := Position(&nodes[i], vp)
		for j := i + 1; j < len(nodes); j++ {
			d := Distance(pi, Position(&nodes[j], vp))
			if d <= 0 || d >= separation {
				continue
			}
			if c := d / separation; c < scale {
				scale = c
			}
		}
	}

	for i := range nodes {
		p := Position(&nodes[i], vp)
		r := baseDiameter * scale / 2
		if r <= 0 {
			break
		}
		for _, d := range [4]float64{p.X, vp.Width - p.X, p.Y, vp.Height - p.Y} {
			if d >= r {
				continue
			}
			if c := 2 * d * EdgeSafety / baseDiameter; c < scale {
				scale = c
			}
		}
	}

	return clamp(scale, MinScale, MaxScale)
}

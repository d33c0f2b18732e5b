package layout

import "math"

// Zoom-to-scale rates. The canvas and the zoomed node deliberately grow at
// different rates (parallax while diving in); both are tuning parameters.
const (
	CanvasZoomRate = 8.0
	NodeZoomRate   = 9.0
)

// Viewport-derived zoom bound parameters.
const (
	// MaxNodeViewportFrac caps the zoomed node's implied diameter at this
	// fraction of the smaller viewport dimension.
	MaxNodeViewportFrac = 0.95
	// MaxNodeOvershoot lets the node grow past that cap while the zoom
	// settles; the transition threshold sits well inside the bound.
	MaxNodeOvershoot = 1.75
	// MaxProgressFloor keeps forward thresholds reachable on viewports too
	// small for the geometric bound to clear them.
	MaxProgressFloor = 100.0
)

// Preview reveal tuning. Root and deeper layers use distinct formulas.
const (
	rootRevealSpan = 84.0
	deepRevealLag  = 10.0
	deepRevealSpan = 80.0
)

// CanvasScale is the whole-canvas magnification at a zoom progress.
func CanvasScale(progress float64) float64 {
	return 1 + progress/100*CanvasZoomRate
}

// NodeScale is the zooming node's magnification at a zoom progress. It
// outpaces CanvasScale so the node appears to rise out of its layer.
func NodeScale(progress float64) float64 {
	return 1 + progress/100*NodeZoomRate
}

// MaxProgress is the zoom-progress upper bound for non-root layers: the
// progress at which the implied node diameter reaches
// MinDim*MaxNodeViewportFrac*MaxNodeOvershoot, floored at MaxProgressFloor.
// Derived from the viewport on every call; never cache the result across
// resizes.
func MaxProgress(vp Viewport, baseDiameter float64) float64 {
	if vp.Degenerate() || baseDiameter <= 0 {
		return MaxProgressFloor
	}
	maxDiameter := vp.MinDim() * MaxNodeViewportFrac * MaxNodeOvershoot
	p := (maxDiameter/baseDiameter - 1) * 100 / NodeZoomRate
	return math.Max(p, MaxProgressFloor)
}

// RootReveal is the fraction of the next layer's preview shown while
// zooming from the root layer.
func RootReveal(progress float64) float64 {
	return clamp(progress/rootRevealSpan, 0, 1)
}

// DeepReveal is the fraction shown while zooming from any deeper layer; it
// lags the root formula so previews surface later on busy layers.
func DeepReveal(progress float64) float64 {
	return clamp((progress-deepRevealLag)/deepRevealSpan, 0, 1)
}

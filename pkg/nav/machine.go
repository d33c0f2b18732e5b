// Package nav implements the navigation engine behind the explorer: zoom
// progress, layer transitions, and the breadcrumb history stack.
//
// The machine is single-goroutine by contract. Its only asynchrony is two
// scheduled continuations per animated transition (the layer swap and the
// lock release), deferred through the Scheduler so tests drive them with a
// virtual clock.
//
// Invalid interactions are silent no-ops: zooming a terminal node, any
// input while a transition is in flight, following a dangling child
// reference. With LX_DEBUG=1 they are logged; they never error and never
// panic.
package nav

import (
	"time"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
	"github.com/vanderheijden86/layerlens/pkg/debug"
	"github.com/vanderheijden86/layerlens/pkg/layout"
)

// Options are the machine's tuning constants. Zero values are not usable;
// start from DefaultOptions.
type Options struct {
	// Sensitivity converts raw wheel delta into zoom progress.
	Sensitivity float64
	// RootThreshold and DeepThreshold are the forward-transition trigger
	// progresses at the root layer and at every deeper layer.
	RootThreshold float64
	DeepThreshold float64
	// RootMaxProgress bounds progress at the root; deeper layers derive
	// their bound from the viewport (layout.MaxProgress).
	RootMaxProgress float64
	// SecondaryStep is the fixed progress decrement of a secondary
	// activation (right-click, long press).
	SecondaryStep float64
	// BaseDiameter is the unscaled node diameter in viewport units.
	BaseDiameter float64
	// SwapDelay is how long an animated transition waits before the layer
	// actually changes; ReleaseDelay is when the transition lock lifts,
	// measured from the start of the transition.
	SwapDelay    time.Duration
	ReleaseDelay time.Duration
}

// DefaultOptions returns the tuning used by the application.
func DefaultOptions() Options {
	return Options{
		Sensitivity:     0.15,
		RootThreshold:   84,
		DeepThreshold:   90,
		RootMaxProgress: 200,
		SecondaryStep:   5,
		BaseDiameter:    10,
		SwapDelay:       50 * time.Millisecond,
		ReleaseDelay:    700 * time.Millisecond,
	}
}

// Machine is the navigation state machine. All fields are explicit; every
// derived quantity (scale, bounds, previews) is recomputed from the atlas
// and viewport on demand, never cached.
type Machine struct {
	atlas *atlas.Atlas
	sched Scheduler
	opts  Options

	current       int
	progress      float64
	zooming       *atlas.Node
	history       []HistoryEntry
	background    string
	transitioning bool
	reverse       bool
	silent        bool
	viewport      layout.Viewport

	cancelSwap    CancelFunc
	cancelRelease CancelFunc
}

// New builds a machine at the root layer of a validated atlas.
func New(a *atlas.Atlas, vp layout.Viewport, sched Scheduler, opts Options) *Machine {
	m := &Machine{atlas: a, sched: sched, opts: opts, viewport: vp}
	m.resetSession()
	return m
}

func (m *Machine) resetSession() {
	m.cancelTimers()
	m.current = 0
	m.progress = 0
	m.zooming = nil
	m.transitioning = false
	m.reverse = false
	m.silent = false
	m.history = []HistoryEntry{rootEntry(m.atlas)}
	m.background = m.history[0].Color
}

// Reset replaces the atlas and starts a fresh session; the live-reload
// path. Pending continuations are cancelled first.
func (m *Machine) Reset(a *atlas.Atlas) {
	m.atlas = a
	m.resetSession()
}

// AdvanceZoom applies a wheel or simulated-tick increment to the zoom
// progress. delta is in raw wheel units; Sensitivity converts it. Positive
// delta zooms into node, negative delta zooms out of the current layer
// (node is ignored on the way out).
func (m *Machine) AdvanceZoom(node *atlas.Node, delta float64) {
	if m.transitioning || delta == 0 {
		return
	}
	if delta > 0 {
		m.zoomIn(node, delta)
		return
	}
	m.retreat(delta * m.opts.Sensitivity)
}

// StepBack lowers progress by a fixed step, bypassing sensitivity: the
// secondary activation's decrement. At zero progress away from the root it
// becomes a reverse-transition request.
func (m *Machine) StepBack(step float64) {
	if m.transitioning || step <= 0 {
		return
	}
	m.retreat(-step)
}

func (m *Machine) zoomIn(node *atlas.Node, delta float64) {
	if node == nil || !node.Expandable() {
		debug.LogIf(node != nil, "zoom-in ignored: %q is terminal", nodeID(node))
		return
	}
	switch {
	case m.progress == 0:
		m.zooming = node // a fresh zoom locks onto this node
	case m.zooming != node:
		return // an active zoom cannot be hijacked by another node
	}

	prev := m.progress
	m.progress = clampProgress(prev+delta*m.opts.Sensitivity, m.Bound())
	if t := m.Threshold(); prev < t && t <= m.progress {
		m.silentTransition()
	}
}

// retreat lowers progress by amount (negative), firing the reverse
// transition when the zero line is crossed away from the root. Reaching 0
// from a start of 0 never triggers anything.
func (m *Machine) retreat(amount float64) {
	prev := m.progress
	if prev == 0 {
		if !m.AtRoot() {
			m.RequestReverse()
		}
		return
	}
	if next := prev + amount; next > 0 {
		m.progress = next
		return
	}
	m.progress = 0
	if m.AtRoot() {
		m.zooming = nil // abandoned zoom, nowhere to go back to
		return
	}
	m.RequestReverse()
}

// silentTransition swaps layers instantly when the forward threshold is
// crossed mid-zoom. Progress and the zooming node survive so the zoom
// reads as continuous rather than a cut; no lock, no timers. Progress is
// reclamped because the destination bound can be tighter than the root's.
func (m *Machine) silentTransition() {
	target, ok := m.atlas.ResolveChild(m.zooming)
	if !ok {
		debug.Log("silent transition ignored: %q has no layer %q",
			nodeID(m.zooming), m.zooming.Children)
		return
	}
	if target == m.current {
		return // overshoot past the deeper threshold, already there
	}
	m.current = target
	m.progress = clampProgress(m.progress, m.Bound())
	m.background = m.entryColor(m.zooming, target)
	m.silent = true
	m.reverse = false
	m.pushEntry(HistoryEntry{
		LayerIndex: target,
		Color:      m.background,
		Name:       m.atlas.Layers[target].Name,
		Clicked:    m.zooming,
	})
}

// Activate runs the click-driven animated transition into the node's child
// layer. Unlike the threshold path this resets the zoom state immediately
// and holds the transition lock until the animation releases. Terminal
// nodes and dangling references change nothing at all.
func (m *Machine) Activate(node *atlas.Node) {
	if m.transitioning || node == nil {
		return
	}
	target, ok := m.atlas.ResolveChild(node)
	if !ok {
		debug.Log("activate ignored: %q leads nowhere", nodeID(node))
		return
	}

	m.progress = 0
	m.zooming = nil
	m.transitioning = true
	m.reverse = false
	m.silent = false
	m.background = m.entryColor(node, target)

	entry := HistoryEntry{
		LayerIndex: target,
		Color:      m.background,
		Name:       m.atlas.Layers[target].Name,
		Clicked:    node,
	}
	m.scheduleSwap(func() {
		m.current = target
		m.pushEntry(entry)
	})
	m.scheduleRelease()
}

// RequestReverse starts the animated one-level backward transition: the
// top history entry pops at swap time and the layer beneath it becomes
// current. Rejected at the root and while another transition is in flight.
func (m *Machine) RequestReverse() {
	if m.transitioning || m.AtRoot() || len(m.history) < 2 {
		return
	}
	next := m.history[:len(m.history)-1]
	dest := next[len(next)-1]
	m.animateTo(dest, func() {
		m.history = next
		m.current = dest.LayerIndex
	})
}

// NavigateTo jumps backward to the i-th breadcrumb. The crumbs above i are
// discarded immediately so the trail reflects the destination while the
// transition plays. Clicking the current (last) crumb is a no-op.
func (m *Machine) NavigateTo(i int) {
	if m.transitioning || i < 0 || i >= len(m.history)-1 {
		return
	}
	m.history = m.history[:i+1]
	dest := m.history[i]
	m.animateTo(dest, func() {
		m.current = dest.LayerIndex
	})
}

// Home returns to the root layer, truncating the trail to its first entry
// and abandoning any zoom in progress. At the root it only clears the zoom
// state.
func (m *Machine) Home() {
	if m.transitioning {
		return
	}
	m.history = m.history[:1]
	if m.AtRoot() {
		m.progress = 0
		m.zooming = nil
		return
	}
	dest := m.history[0]
	m.animateTo(dest, func() {
		m.current = dest.LayerIndex
	})
}

// CanvasClick settles an in-flight zoom without navigating anywhere.
func (m *Machine) CanvasClick() {
	if m.transitioning || m.progress == 0 {
		return
	}
	m.progress = 0
	m.zooming = nil
}

// Resize records the new viewport and reclamps progress into the bound it
// implies. Bounds are derived on demand, so this is the whole job.
func (m *Machine) Resize(vp layout.Viewport) {
	m.viewport = vp
	if b := m.Bound(); m.progress > b {
		m.progress = b
	}
}

// animateTo is the shared reverse sequence: the lock and destination color
// apply immediately, the swap (plus the zoom-state reset) after SwapDelay,
// and the lock lifts after ReleaseDelay.
func (m *Machine) animateTo(dest HistoryEntry, swap func()) {
	m.transitioning = true
	m.reverse = true
	m.silent = false
	m.background = dest.Color
	m.scheduleSwap(func() {
		swap()
		m.progress = 0
		m.zooming = nil
	})
	m.scheduleRelease()
}

func (m *Machine) scheduleSwap(fn func()) {
	if m.cancelSwap != nil {
		m.cancelSwap()
	}
	m.cancelSwap = m.sched.Schedule(m.opts.SwapDelay, func() {
		m.cancelSwap = nil
		fn()
	})
}

func (m *Machine) scheduleRelease() {
	if m.cancelRelease != nil {
		m.cancelRelease()
	}
	m.cancelRelease = m.sched.Schedule(m.opts.ReleaseDelay, func() {
		m.cancelRelease = nil
		m.transitioning = false
	})
}

func (m *Machine) cancelTimers() {
	if m.cancelSwap != nil {
		m.cancelSwap()
		m.cancelSwap = nil
	}
	if m.cancelRelease != nil {
		m.cancelRelease()
		m.cancelRelease = nil
	}
}

// pushEntry appends unless the top crumb already points at the entry's
// layer, so threshold oscillation cannot stack duplicates.
func (m *Machine) pushEntry(e HistoryEntry) {
	if m.history[len(m.history)-1].LayerIndex == e.LayerIndex {
		return
	}
	m.history = append(m.history, e)
}

// entryColor picks the background for a transition into target via node:
// the node's own color, else the target layer's, else whatever is showing.
func (m *Machine) entryColor(n *atlas.Node, target int) string {
	if n != nil && n.Color != "" {
		return n.Color
	}
	if c := m.atlas.Layers[target].Color; c != "" {
		return c
	}
	return m.background
}

// Bound is the current zoom-progress upper bound: fixed at the root,
// viewport-derived deeper.
func (m *Machine) Bound() float64 {
	if m.AtRoot() {
		return m.opts.RootMaxProgress
	}
	return layout.MaxProgress(m.viewport, m.opts.BaseDiameter)
}

// Threshold is the forward-transition trigger progress for the current
// layer.
func (m *Machine) Threshold() float64 {
	if m.AtRoot() {
		return m.opts.RootThreshold
	}
	return m.opts.DeepThreshold
}

// RewindMode reports whether zoom-out is unwinding the layer most recently
// entered: the top crumb was created by the node still being zoomed, and
// progress is live. While true, wheel input anywhere belongs to that node
// (its zoomed circle covers the whole viewport).
func (m *Machine) RewindMode() bool {
	if m.AtRoot() || m.progress <= 0 || m.zooming == nil {
		return false
	}
	return m.history[len(m.history)-1].Clicked == m.zooming
}

// AtRoot reports whether the root layer is current.
func (m *Machine) AtRoot() bool { return m.current == 0 }

// CurrentIndex returns the current layer index.
func (m *Machine) CurrentIndex() int { return m.current }

// CurrentLayer returns the current layer.
func (m *Machine) CurrentLayer() *atlas.Layer { return &m.atlas.Layers[m.current] }

// Atlas returns the content the machine navigates.
func (m *Machine) Atlas() *atlas.Atlas { return m.atlas }

// Progress returns the live zoom progress.
func (m *Machine) Progress() float64 { return m.progress }

// Zooming returns the node being zoomed into, nil when idle.
func (m *Machine) Zooming() *atlas.Node { return m.zooming }

// Transitioning reports whether an animated transition holds the lock.
func (m *Machine) Transitioning() bool { return m.transitioning }

// Background returns the current background color.
func (m *Machine) Background() string { return m.background }

// History returns the live crumb stack, root first. Callers must not
// mutate it; Snapshot returns a copy instead.
func (m *Machine) History() []HistoryEntry { return m.history }

// Viewport returns the last size the machine was told about.
func (m *Machine) Viewport() layout.Viewport { return m.viewport }

func clampProgress(p, bound float64) float64 {
	if p < 0 {
		return 0
	}
	if p > bound {
		return bound
	}
	return p
}

func nodeID(n *atlas.Node) string {
	if n == nil {
		return "<nil>"
	}
	if n.ID != "" {
		return n.ID
	}
	return n.Label
}

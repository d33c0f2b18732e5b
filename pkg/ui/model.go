// Package ui implements the terminal explorer: a bubbletea front end over
// the navigation machine in pkg/nav. The model owns no layer or zoom
// semantics of its own; it translates key, mouse, and timer input into
// machine calls and renders snapshots.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
	"github.com/vanderheijden86/layerlens/pkg/config"
	"github.com/vanderheijden86/layerlens/pkg/export"
	"github.com/vanderheijden86/layerlens/pkg/layout"
	"github.com/vanderheijden86/layerlens/pkg/nav"
	"github.com/vanderheijden86/layerlens/pkg/watcher"
)

// Default terminal dimensions used until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 120
	defaultHeight = 40
)

// clipboardWriteAll is a seam for tests; CI machines have no clipboard.
var clipboardWriteAll = clipboard.WriteAll

// simState tracks a click-launched simulated zoom. Ticks advance the
// machine until the threshold transition fires, the layer changes under
// us, or the tick budget runs out. gen guards against stale tick messages
// after a cancel.
type simState struct {
	active    bool
	gen       int
	node      *atlas.Node
	layer     int
	ticksLeft int
}

// pressState tracks a left press awaiting its release or the long-press
// timer, whichever comes first.
type pressState struct {
	active bool
	gen    int
	node   *atlas.Node
}

// Model is the bubbletea model for the explorer TUI.
type Model struct {
	// Engine. The machine holds all navigation state; opts is kept so
	// config can tune it before the program starts.
	machine *nav.Machine
	sched   nav.Scheduler
	opts    nav.Options

	// Content source. atlasPath is empty for the embedded demo, which
	// never reloads.
	atlasPath string
	watcher   *watcher.Watcher

	// Presentation.
	theme     Theme
	keys      KeyMap
	helpModel help.Model
	width     int
	height    int
	ready     bool

	// Input state.
	selected  int // keyboard selection within the current layer
	lastLayer int // detects layer changes for selection reset
	sim       simState
	press     pressState

	// Overlays.
	showHelp        bool
	helpView        viewport.Model
	showExport      bool
	exportForm      *huh.Form
	exportRes       *export.WizardResult
	showQuitConfirm bool

	// Status line, shown in the footer until the next keypress.
	statusMsg     string
	statusIsError bool

	cfg config.Config
}

// NewModel builds the explorer over a validated atlas. atlasPath is the
// file live reloads re-read; pass "" for the embedded demo.
func NewModel(a *atlas.Atlas, atlasPath string) Model {
	sched := nav.NewTimerScheduler()
	opts := nav.DefaultOptions()
	return Model{
		machine:   nav.New(a, canvasViewport(defaultWidth, defaultHeight), sched, opts),
		sched:     sched,
		opts:      opts,
		atlasPath: atlasPath,
		theme:     DefaultTheme(lipgloss.NewRenderer(os.Stdout)),
		keys:      DefaultKeyMap(),
		helpModel: help.New(),
		width:     defaultWidth,
		height:    defaultHeight,
		ready:     true,
		cfg:       config.DefaultConfig(),
	}
}

// WithConfig applies user configuration: wheel sensitivity, reduced
// motion, and theme. The machine is rebuilt so the options take effect
// from a clean session.
func (m Model) WithConfig(cfg config.Config) Model {
	m.cfg = cfg
	m.opts.Sensitivity = cfg.Sensitivity
	if m.opts.Sensitivity <= 0 {
		m.opts.Sensitivity = config.DefaultSensitivity
	}
	if cfg.ReducedMotion {
		m.opts.SwapDelay = 0
		m.opts.ReleaseDelay = 0
	}
	ApplyThemeMode(m.theme.Renderer, cfg.Theme)
	m.machine = nav.New(m.machine.Atlas(), m.machine.Viewport(), m.sched, m.opts)
	return m
}

// WithScheduler swaps the transition scheduler. Tests install a
// VirtualClock so swap and release timers fire deterministically.
func (m Model) WithScheduler(s nav.Scheduler) Model {
	m.sched = s
	m.machine = nav.New(m.machine.Atlas(), m.machine.Viewport(), s, m.opts)
	return m
}

// WithWatcher attaches a started file watcher whose Changed channel
// drives live reloads.
func (m Model) WithWatcher(w *watcher.Watcher) Model {
	m.watcher = w
	return m
}

// canvasViewport maps terminal dimensions to the machine's viewport: the
// cell area between the crumb row and the footer. The machine never sees
// chrome rows.
func canvasViewport(width, height int) layout.Viewport {
	h := height - canvasTop - footerRows
	if h < 1 {
		h = 1
	}
	return layout.Viewport{Width: float64(width), Height: float64(h)}
}

func (m Model) canvasHeight() int {
	h := m.height - canvasTop - footerRows
	if h < 1 {
		h = 1
	}
	return h
}

// bodyHeight is everything below the header row; full-screen overlays
// size themselves to it.
func (m Model) bodyHeight() int {
	h := m.height - headerRows
	if h < 1 {
		h = 1
	}
	return h
}

// Init starts the long-running listeners: the transition scheduler pump,
// the file watcher, and the optional auto-close timer.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if ts, ok := m.sched.(*nav.TimerScheduler); ok {
		cmds = append(cmds, WaitSchedulerCmd(ts))
	}
	if m.watcher != nil {
		cmds = append(cmds, WatchAtlasCmd(m.watcher))
	}
	if cmd := AutoCloseCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update routes messages. The export form is handled before the type
// switch because huh wants every message kind while it has focus.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showExport && m.exportForm != nil {
		return m.updateExportForm(msg)
	}

	switch msg := msg.(type) {
	case schedulerFiredMsg:
		// A transition timer fired; run the machine continuation on the
		// update goroutine, then re-arm the pump.
		msg.fn()
		m.syncSelection()
		if ts, ok := m.sched.(*nav.TimerScheduler); ok {
			return m, WaitSchedulerCmd(ts)
		}
		return m, nil

	case FileChangedMsg:
		return m.reloadAtlas()

	case simTickMsg:
		return m.simTick(msg)

	case longPressMsg:
		if m.press.active && msg.gen == m.press.gen {
			m.press.active = false
			m.secondary()
			m.syncSelection()
		}
		return m, nil

	case autoCloseMsg:
		return m, tea.Quit

	case exportDoneMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Export failed: %v", msg.err)
			m.statusIsError = true
		} else {
			m.statusMsg = "Exported " + strings.Join(msg.paths, ", ")
			m.statusIsError = false
		}
		return m, nil

	case clipboardResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Copy failed: %v", msg.err)
			m.statusIsError = true
		} else {
			m.statusMsg = "Trail copied"
			m.statusIsError = false
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.applyResize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// updateExportForm drives the snapshot form overlay. Completion launches
// the export in the background; abort just closes the overlay.
func (m Model) updateExportForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.applyResize(msg.Width, msg.Height)
	}

	f, cmd := m.exportForm.Update(msg)
	if form, ok := f.(*huh.Form); ok {
		m.exportForm = form
	}

	switch m.exportForm.State {
	case huh.StateCompleted:
		res := m.exportRes
		res.Path = export.SuggestPath(m.machine.Atlas(), res)
		m.showExport = false
		m.exportForm = nil
		m.statusMsg = "Exporting to " + res.Path
		m.statusIsError = false
		return m, tea.Batch(cmd, exportCmd(m.machine.Atlas(), res))
	case huh.StateAborted:
		m.showExport = false
		m.exportForm = nil
		m.statusMsg = "Export cancelled"
		m.statusIsError = false
		return m, cmd
	}
	return m, cmd
}

// reloadAtlas re-reads the atlas file after a watcher event. A broken
// file keeps the running session and surfaces the error in the footer.
// The watch command is re-armed on both paths.
func (m Model) reloadAtlas() (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.watcher != nil {
		cmd = WatchAtlasCmd(m.watcher)
	}

	a, err := atlas.Load(m.atlasPath)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Reload error: %v", err)
		m.statusIsError = true
		return m, cmd
	}

	m.cancelSim()
	m.press.active = false
	m.machine.Reset(a)
	m.selected = 0
	m.lastLayer = 0
	m.statusMsg = "Atlas reloaded"
	m.statusIsError = false
	return m, cmd
}

// simTick advances a simulated zoom by one step. Stale generations are
// dropped; the sim cancels itself as soon as the machine transitions or
// swaps layers (the silent threshold path changes the layer without a
// transition lock, so both are checked).
func (m Model) simTick(msg simTickMsg) (tea.Model, tea.Cmd) {
	if !m.sim.active || msg.gen != m.sim.gen {
		return m, nil
	}
	if m.machine.Transitioning() || m.machine.CurrentIndex() != m.sim.layer {
		m.cancelSim()
		m.syncSelection()
		return m, nil
	}

	m.machine.AdvanceZoom(m.sim.node, simStep)
	m.sim.ticksLeft--

	if m.sim.ticksLeft <= 0 || m.machine.Transitioning() || m.machine.CurrentIndex() != m.sim.layer {
		m.cancelSim()
		m.syncSelection()
		return m, nil
	}
	return m, simTickCmd(m.sim.gen)
}

// applyResize records the new terminal size and propagates the canvas
// area to the machine.
func (m *Model) applyResize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true
	m.machine.Resize(canvasViewport(width, height))
	m.helpModel.Width = width
	if m.showHelp {
		m.openHelp() // rebuild the scroll viewport at the new size
	}
}

// handleKey processes keyboard input outside the export overlay.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any keypress clears a stale status line.
	m.statusMsg = ""
	m.statusIsError = false

	if m.showQuitConfirm {
		switch msg.String() {
		case "esc", "y", "Y":
			return m, tea.Quit
		default:
			m.showQuitConfirm = false
			return m, nil
		}
	}

	if m.showHelp {
		switch msg.String() {
		case "esc", "q", "?":
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Quit):
		m.showQuitConfirm = true
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.openHelp()
		return m, nil

	case key.Matches(msg, m.keys.NextNode):
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevNode):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.Activate):
		m.cancelSim()
		m.machine.Activate(m.SelectedNode())
		m.syncSelection()
		return m, nil

	case key.Matches(msg, m.keys.ZoomIn):
		m.machine.AdvanceZoom(m.zoomTarget(), wheelDelta)
		m.syncSelection()
		return m, nil

	case key.Matches(msg, m.keys.ZoomOut):
		m.machine.AdvanceZoom(nil, -wheelDelta)
		m.syncSelection()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.secondary()
		m.syncSelection()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.cancelSim()
		m.machine.Home()
		m.syncSelection()
		return m, nil

	case key.Matches(msg, m.keys.Crumb):
		s := msg.String()
		m.machine.NavigateTo(int(s[0] - '1'))
		m.syncSelection()
		return m, nil

	case key.Matches(msg, m.keys.Canvas):
		m.cancelSim()
		m.machine.CanvasClick()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyTrailCmd()

	case key.Matches(msg, m.keys.Export):
		m.openExport()
		return m, m.exportForm.Init()
	}

	return m, nil
}

// handleMouse dispatches pointer input: wheel zooms, left click selects
// and dives, right click backs out, crumb clicks jump along the trail.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.machine.AdvanceZoom(m.wheelTarget(msg.X, msg.Y), wheelDelta)
		m.syncSelection()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.machine.AdvanceZoom(nil, -wheelDelta)
		m.syncSelection()
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if msg.Y == headerRows {
			spans := crumbSpans(m.machine.History(), m.width)
			if i := crumbIndexAt(spans, msg.X); i >= 0 {
				m.machine.NavigateTo(i)
				m.syncSelection()
			}
			return m, nil
		}
		if !m.onCanvas(msg.Y) {
			return m, nil
		}
		node := m.nodeUnderCursor(msg.X, msg.Y)
		m.press = pressState{active: true, gen: m.press.gen + 1, node: node}
		if node != nil {
			m.selectNode(node)
		}
		return m, longPressCmd(m.press.gen)

	case tea.MouseActionRelease:
		switch msg.Button {
		case tea.MouseButtonLeft, tea.MouseButtonNone:
			// X10 terminals report releases with button "none"; accept
			// both so short clicks work everywhere.
			if !m.press.active {
				return m, nil
			}
			m.press.active = false
			if m.press.node == nil {
				m.cancelSim()
				m.machine.CanvasClick()
				return m, nil
			}
			if m.press.node.Expandable() && m.machine.Progress() == 0 && !m.machine.Transitioning() {
				return m, m.startSim(m.press.node)
			}
			return m, nil
		case tea.MouseButtonRight:
			m.secondary()
			m.syncSelection()
			return m, nil
		}
	}

	return m, nil
}

// wheelTarget resolves what a wheel-up applies to. A rewinding zoom stays
// locked to its node wherever the pointer sits; otherwise wheel zooms the
// badge under the pointer, if any.
func (m Model) wheelTarget(x, y int) *atlas.Node {
	if m.machine.RewindMode() {
		return m.machine.Zooming()
	}
	if !m.onCanvas(y) {
		return nil
	}
	return m.nodeUnderCursor(x, y)
}

// zoomTarget is the keyboard analog of wheelTarget, using the selection
// instead of the pointer.
func (m Model) zoomTarget() *atlas.Node {
	if m.machine.RewindMode() {
		return m.machine.Zooming()
	}
	return m.SelectedNode()
}

func (m Model) onCanvas(y int) bool {
	return y >= canvasTop && y < canvasTop+m.canvasHeight()
}

// nodeUnderCursor hit-tests the pointer against the badges exactly as the
// last frame placed them.
func (m Model) nodeUnderCursor(x, y int) *atlas.Node {
	badges := placeBadges(m.machine.Snapshot(), m.selected)
	return nodeAt(badges, x, y-canvasTop)
}

// startSim launches the simulated zoom a click triggers. The budget is in
// ticks so tests can drive it without real time; the root layer has a
// lower threshold and therefore a shorter budget.
func (m *Model) startSim(node *atlas.Node) tea.Cmd {
	budget := simDeepBudget
	if m.machine.AtRoot() {
		budget = simRootBudget
	}
	m.sim = simState{
		active:    true,
		gen:       m.sim.gen + 1,
		node:      node,
		layer:     m.machine.CurrentIndex(),
		ticksLeft: int(budget / simTickInterval),
	}
	return simTickCmd(m.sim.gen)
}

func (m *Model) cancelSim() {
	m.sim.active = false
	m.sim.gen++
}

// secondary is the shared back gesture: right click, long press, esc. The
// machine's StepBack covers both cases, easing an in-flight zoom or
// reversing one layer at rest.
func (m *Model) secondary() {
	m.cancelSim()
	m.machine.StepBack(m.opts.SecondaryStep)
}

// moveSelection cycles the keyboard selection through the current layer.
func (m *Model) moveSelection(dir int) {
	nodes := m.machine.CurrentLayer().Nodes
	if len(nodes) == 0 {
		m.selected = 0
		return
	}
	m.selected = ((m.selected+dir)%len(nodes) + len(nodes)) % len(nodes)
}

// syncSelection resets the selection when the machine changed layers and
// keeps it in range otherwise. Called after every machine-mutating input.
func (m *Model) syncSelection() {
	if cur := m.machine.CurrentIndex(); cur != m.lastLayer {
		m.lastLayer = cur
		m.selected = 0
		return
	}
	if n := len(m.machine.CurrentLayer().Nodes); m.selected >= n {
		m.selected = 0
	}
}

func (m *Model) selectNode(n *atlas.Node) {
	nodes := m.machine.CurrentLayer().Nodes
	for i := range nodes {
		if &nodes[i] == n {
			m.selected = i
			return
		}
	}
}

// copyTrailCmd copies the breadcrumb trail as plain text.
func (m Model) copyTrailCmd() tea.Cmd {
	trail := nav.TrailString(m.machine.History(), crumbSeparator)
	return func() tea.Msg {
		return clipboardResultMsg{err: clipboardWriteAll(trail)}
	}
}

// openExport raises the snapshot form preloaded with the current layer.
func (m *Model) openExport() {
	m.exportRes = &export.WizardResult{
		LayerIndex: m.machine.CurrentIndex(),
		Format:     "svg",
	}
	m.exportForm = export.NewSnapshotForm(m.machine.Atlas(), m.exportRes)
	m.showExport = true
}

// View renders the frame: header, crumb trail, canvas, footer, or
// whichever overlay is up. The final style pins the output to the
// terminal size so redraws never leave artifacts.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.showQuitConfirm {
		return m.renderQuitConfirm()
	}

	var body string
	switch {
	case m.showExport && m.exportForm != nil:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(m.machine.Snapshot()),
			m.exportForm.View(),
		)
	case m.showHelp:
		body = m.renderHelpOverlay()
	default:
		snap := m.machine.Snapshot()
		badges := placeBadges(snap, m.selected)
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(snap),
			m.renderCrumbs(snap.History, crumbSpans(snap.History, m.width)),
			m.renderCanvas(snap, badges),
			m.renderFooter(),
		)
	}

	finalStyle := m.theme.Renderer.NewStyle().
		Width(m.width).
		Height(m.height).
		MaxHeight(m.height)
	return finalStyle.Render(body)
}

// renderHeader shows the app name, atlas title, and current layer on the
// left, the zoom gauge on the right.
func (m Model) renderHeader(snap nav.Snapshot) string {
	t := m.theme
	left := t.Header.Render("lx") +
		" " + t.PrimaryBold.Render(m.machine.Atlas().Title) +
		t.MutedText.Render(" · ") +
		t.Base.Render(snap.Layer.Name)

	gauge := RenderZoomGauge(snap.Progress, snap.MaxProgress, 10, t)
	if snap.Transitioning {
		gauge = t.MutedText.Render("⟳ ") + gauge
	}

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(gauge)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + gauge
}

// renderFooter shows the status line when one is set, otherwise the short
// key help.
func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		if m.statusIsError {
			return m.theme.DangerText.Render("✗ " + m.statusMsg)
		}
		return m.theme.SuccessText.Render("✓ " + m.statusMsg)
	}
	return m.helpModel.ShortHelpView(m.keys.ShortHelp())
}

func (m Model) renderQuitConfirm() string {
	t := m.theme
	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 3).
		Render(t.PrimaryBold.Render("Quit lx?") + "\n\n" +
			t.MutedText.Render("esc or y to quit · any other key to stay"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// Machine exposes the navigation engine for tests and the robot output.
func (m Model) Machine() *nav.Machine { return m.machine }

// SelectedNode returns the keyboard-selected node, nil on an empty layer.
func (m Model) SelectedNode() *atlas.Node {
	nodes := m.machine.CurrentLayer().Nodes
	if len(nodes) == 0 {
		return nil
	}
	return &nodes[clampInt(m.selected, 0, len(nodes)-1)]
}

func (m Model) SelectedIndex() int       { return m.selected }
func (m Model) SimulationActive() bool   { return m.sim.active }
func (m Model) ShowingHelp() bool        { return m.showHelp }
func (m Model) ShowingExport() bool      { return m.showExport }
func (m Model) ShowingQuitConfirm() bool { return m.showQuitConfirm }

// StatusMessage returns the footer status and whether it is an error.
func (m Model) StatusMessage() (string, bool) { return m.statusMsg, m.statusIsError }

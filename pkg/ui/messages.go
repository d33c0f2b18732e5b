package ui

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/layerlens/pkg/atlas"
	"github.com/vanderheijden86/layerlens/pkg/export"
	"github.com/vanderheijden86/layerlens/pkg/nav"
	"github.com/vanderheijden86/layerlens/pkg/watcher"
)

// Simulated click-zoom tuning. A click on an expandable node replays the
// wheel pipeline at render rate until the forward threshold is guaranteed
// crossed; the budgets are generous on purpose so a transition partway
// through never leaves a stuck interval.
const (
	simTickInterval = 16 * time.Millisecond
	simRootBudget   = 2000 * time.Millisecond
	simDeepBudget   = 2500 * time.Millisecond
	simStep         = 5.0
)

// wheelDelta is the raw delta of one wheel notch; at the default
// sensitivity one notch moves progress by 7.5.
const wheelDelta = 50.0

// longPressDelay is how long a held left button counts as a press-and-hold
// (the secondary activation) instead of a click.
const longPressDelay = 500 * time.Millisecond

// schedulerFiredMsg carries one due engine continuation (a layer swap or a
// lock release) from the timer goroutine into Update, so machine state is
// only ever touched on the UI goroutine.
type schedulerFiredMsg struct {
	fn func()
}

// FileChangedMsg signals that the watched atlas file changed on disk.
type FileChangedMsg struct{}

// simTickMsg drives one simulated click-zoom increment. The generation
// guards against stale ticks after the interval was cancelled or replaced.
type simTickMsg struct {
	gen int
}

// longPressMsg fires when a held left button crosses the long-press delay.
type longPressMsg struct {
	gen int
}

// autoCloseMsg quits the program; emitted by the LX_TUI_AUTOCLOSE_MS hook.
type autoCloseMsg struct{}

// exportDoneMsg reports a finished snapshot export.
type exportDoneMsg struct {
	paths []string
	err   error
}

// clipboardResultMsg reports the breadcrumb copy outcome.
type clipboardResultMsg struct {
	err error
}

// WaitSchedulerCmd blocks on the production scheduler's queue and delivers
// the next due continuation. Re-armed after every delivery, mirroring the
// watcher pump.
func WaitSchedulerCmd(s *nav.TimerScheduler) tea.Cmd {
	return func() tea.Msg {
		return schedulerFiredMsg{fn: <-s.Fired()}
	}
}

// WatchAtlasCmd blocks until the watcher reports a change.
func WatchAtlasCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

func simTickCmd(gen int) tea.Cmd {
	return tea.Tick(simTickInterval, func(time.Time) tea.Msg {
		return simTickMsg{gen: gen}
	})
}

func longPressCmd(gen int) tea.Cmd {
	return tea.Tick(longPressDelay, func(time.Time) tea.Msg {
		return longPressMsg{gen: gen}
	})
}

func exportCmd(a *atlas.Atlas, res *export.WizardResult) tea.Cmd {
	return func() tea.Msg {
		paths, err := export.Execute(context.Background(), a, res)
		return exportDoneMsg{paths: paths, err: err}
	}
}

// AutoCloseCmd returns a quit timer when LX_TUI_AUTOCLOSE_MS is set to a
// positive integer; nil otherwise. Lets scripted runs exercise the full
// TUI lifecycle without a keypress.
func AutoCloseCmd() tea.Cmd {
	raw := strings.TrimSpace(os.Getenv("LX_TUI_AUTOCLOSE_MS"))
	if raw == "" {
		return nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return nil
	}
	return tea.Tick(time.Duration(ms)*time.Millisecond, func(time.Time) tea.Msg {
		return autoCloseMsg{}
	})
}

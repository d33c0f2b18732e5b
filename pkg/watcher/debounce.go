package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration coalesces bursts of filesystem events into a
// single change notification. Editors commonly emit several events per
// save (truncate, write, rename-over).
const DefaultDebounceDuration = 200 * time.Millisecond

// Debouncer delays a callback until triggers stop arriving for the
// configured duration. Only the most recent callback runs.
type Debouncer struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
}

// NewDebouncer creates a debouncer. A non-positive duration falls back
// to DefaultDebounceDuration.
func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = DefaultDebounceDuration
	}
	return &Debouncer{duration: d}
}

// Trigger schedules fn after the debounce window, replacing any
// callback still pending from an earlier trigger.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Duration returns the debounce window.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}

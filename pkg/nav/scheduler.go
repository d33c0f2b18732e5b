package nav

import "time"

// CancelFunc stops a scheduled callback. Safe to call more than once and
// after the callback has fired.
type CancelFunc func()

// Scheduler defers callbacks. The machine owns exactly two continuations
// (the layer swap and the lock release); everything else in the program
// animates off the render loop instead.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) CancelFunc
}

// TimerScheduler is the production Scheduler. Callbacks never run on the
// timer goroutine: they are queued on a channel for the owner's event loop
// to drain, so machine state is only ever touched from one goroutine.
type TimerScheduler struct {
	fired chan func()
}

// NewTimerScheduler returns a Scheduler backed by real timers.
func NewTimerScheduler() *TimerScheduler {
	// Buffered: only a handful of continuations are ever pending, and the
	// timer goroutine must not block behind a busy render.
	return &TimerScheduler{fired: make(chan func(), 8)}
}

// Schedule queues fn to be delivered on Fired after d.
func (s *TimerScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, func() { s.fired <- fn })
	return func() { t.Stop() }
}

// Fired exposes the queue of due callbacks. The owner runs each one on its
// own event loop.
func (s *TimerScheduler) Fired() <-chan func() { return s.fired }

// VirtualClock is a deterministic Scheduler for tests: nothing fires until
// Advance moves the clock.
type VirtualClock struct {
	now     time.Duration
	seq     int
	pending []*virtualTimer
}

type virtualTimer struct {
	due       time.Duration
	seq       int
	fn        func()
	cancelled bool
}

// NewVirtualClock returns a VirtualClock at time zero.
func NewVirtualClock() *VirtualClock { return &VirtualClock{} }

// Schedule registers fn to run when the clock has advanced by d.
func (c *VirtualClock) Schedule(d time.Duration, fn func()) CancelFunc {
	if d < 0 {
		d = 0
	}
	t := &virtualTimer{due: c.now + d, seq: c.seq, fn: fn}
	c.seq++
	c.pending = append(c.pending, t)
	return func() { t.cancelled = true }
}

// Advance moves the clock forward, running due callbacks in schedule
// order. Callbacks may schedule further work; anything falling inside the
// advanced window runs in the same call.
func (c *VirtualClock) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	target := c.now + d
	for {
		t := c.nextDue(target)
		if t == nil {
			break
		}
		c.now = t.due
		t.cancelled = true // consumed
		t.fn()
	}
	c.now = target
	c.compact()
}

func (c *VirtualClock) nextDue(target time.Duration) *virtualTimer {
	var best *virtualTimer
	for _, t := range c.pending {
		if t.cancelled || t.due > target {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (c *VirtualClock) compact() {
	kept := c.pending[:0]
	for _, t := range c.pending {
		if !t.cancelled {
			kept = append(kept, t)
		}
	}
	c.pending = kept
}

// Pending counts callbacks not yet fired or cancelled.
func (c *VirtualClock) Pending() int {
	n := 0
	for _, t := range c.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Now returns the virtual time elapsed since construction.
func (c *VirtualClock) Now() time.Duration { return c.now }

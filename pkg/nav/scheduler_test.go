package nav

import (
	"testing"
	"time"
)

func TestVirtualClock_FiresInOrder(t *testing.T) {
	c := NewVirtualClock()
	var order []int
	c.Schedule(30*time.Millisecond, func() { order = append(order, 3) })
	c.Schedule(10*time.Millisecond, func() { order = append(order, 1) })
	c.Schedule(20*time.Millisecond, func() { order = append(order, 2) })

	c.Advance(15 * time.Millisecond)
	if len(order) != 1 || order[0] != 1 {
		t.Fatalf("expected only the 10ms callback, got %v", order)
	}

	c.Advance(100 * time.Millisecond)
	if len(order) != 3 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected 1,2,3 in order, got %v", order)
	}
	if c.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", c.Pending())
	}
}

func TestVirtualClock_SameDueKeepsScheduleOrder(t *testing.T) {
	c := NewVirtualClock()
	var order []int
	c.Schedule(10*time.Millisecond, func() { order = append(order, 1) })
	c.Schedule(10*time.Millisecond, func() { order = append(order, 2) })

	c.Advance(10 * time.Millisecond)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("expected schedule order preserved, got %v", order)
	}
}

func TestVirtualClock_Cancel(t *testing.T) {
	c := NewVirtualClock()
	fired := false
	cancel := c.Schedule(10*time.Millisecond, func() { fired = true })
	cancel()
	cancel() // safe to call twice

	c.Advance(time.Second)
	if fired {
		t.Error("cancelled callback fired")
	}
	if c.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", c.Pending())
	}
}

func TestVirtualClock_CallbackSchedulesMore(t *testing.T) {
	c := NewVirtualClock()
	var hits []time.Duration
	c.Schedule(10*time.Millisecond, func() {
		hits = append(hits, c.Now())
		c.Schedule(10*time.Millisecond, func() {
			hits = append(hits, c.Now())
		})
	})

	// Both the original and the nested callback fall inside one window.
	c.Advance(25 * time.Millisecond)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %v", hits)
	}
	if hits[0] != 10*time.Millisecond || hits[1] != 20*time.Millisecond {
		t.Errorf("expected hits at 10ms and 20ms, got %v", hits)
	}
	if c.Now() != 25*time.Millisecond {
		t.Errorf("expected clock at 25ms, got %v", c.Now())
	}
}

func TestVirtualClock_ZeroDelay(t *testing.T) {
	c := NewVirtualClock()
	fired := false
	c.Schedule(0, func() { fired = true })
	c.Advance(0)
	if !fired {
		t.Error("zero-delay callback should fire on a zero advance")
	}
}

func TestTimerScheduler_Delivers(t *testing.T) {
	s := NewTimerScheduler()
	s.Schedule(time.Millisecond, func() {})

	select {
	case fn := <-s.Fired():
		if fn == nil {
			t.Fatal("expected a callback, got nil")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the scheduled callback")
	}
}

func TestTimerScheduler_Cancel(t *testing.T) {
	s := NewTimerScheduler()
	cancel := s.Schedule(50*time.Millisecond, func() {})
	cancel()

	select {
	case <-s.Fired():
		t.Fatal("cancelled callback was delivered")
	case <-time.After(150 * time.Millisecond):
	}
}

package debounce

import (
	"sync"
	"time"
)

// ManualClock is a Clock whose timers only run when Fire is called.
type ManualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	clock   *ManualClock
	d       time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Fire runs every timer that has not been stopped and returns how many ran.
func (c *ManualClock) Fire() int {
	c.mu.Lock()
	due := []*manualTimer{}
	for _, t := range c.timers {
		if !t.stopped {
			t.stopped = true
			due = append(due, t)
		}
	}
	c.timers = nil
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

// Active counts timers waiting to fire.
func (c *ManualClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

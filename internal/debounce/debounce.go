package debounce

import (
	"sync"
	"time"
)

type Timer interface {
	Stop() bool
}

// Clock creates the timers a Debouncer waits on.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

var RealClock Clock = realClock{}

// Debouncer emits only the last value pushed in a burst, once window has
// passed without another push.
type Debouncer[T any] struct {
	mu      sync.Mutex
	window  time.Duration
	clock   Clock
	emit    func(T)
	timer   Timer
	pending T
	has     bool
	seq     uint64
	stopped bool
}

func New[T any](window time.Duration, clock Clock, emit func(T)) *Debouncer[T] {
	if clock == nil {
		clock = RealClock
	}
	return &Debouncer[T]{
		window: window,
		clock:  clock,
		emit:   emit,
	}
}

func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.pending = v
	d.has = true
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.window, func() { d.fire(seq) })
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	// a later push or a flush superseded this timer
	if d.stopped || seq != d.seq || !d.has {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.has = false
	d.timer = nil
	d.mu.Unlock()

	d.emit(v)
}

// Flush emits the pending value now, if any.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.stopped || !d.has {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.has = false
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.emit(v)
}

// Take cancels the pending emission and hands the value to the caller
// instead. It is for callers that already hold whatever lock emit takes.
func (d *Debouncer[T]) Take() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var zero T
	if d.stopped || !d.has {
		return zero, false
	}
	v := d.pending
	d.pending = zero
	d.has = false
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return v, true
}

// Pending reports whether a value is waiting for its window to elapse.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.has
}

// Stop drops the pending value; later pushes are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.has = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

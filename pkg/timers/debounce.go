package timers

import (
	"sync"
	"time"
)

// Debouncer defers fn until wait has elapsed without a new call. Each call
// replaces the pending one and its arguments.
type Debouncer[T any] struct {
	mu    sync.Mutex
	sched Scheduler
	wait  time.Duration
	fn    func(T)
	timer Timer
	gen   uint64
}

// NewDebouncer returns a debouncer running fn on s. A nil scheduler means
// RealScheduler.
func NewDebouncer[T any](s Scheduler, wait time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		sched: orReal(s),
		wait:  wait,
		fn:    fn,
	}
}

// Call schedules fn(arg), cancelling any pending invocation.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.sched.AfterFunc(d.wait, func() {
		d.mu.Lock()
		if gen != d.gen {
			// superseded after the timer already fired
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.fn(arg)
	})
}

// Stop drops the pending invocation, if any.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Debounce wraps fn so that it runs once wait has elapsed since the last call.
func Debounce[T any](s Scheduler, wait time.Duration, fn func(T)) func(T) {
	return NewDebouncer(s, wait, fn).Call
}

package timers

import (
	"sync"
	"time"
)

// Throttler runs fn on the first call and drops every call until limit has
// elapsed.
type Throttler[T any] struct {
	mu      sync.Mutex
	sched   Scheduler
	limit   time.Duration
	fn      func(T)
	blocked bool
}

// NewThrottler returns a throttler running fn. A nil scheduler means
// RealScheduler.
func NewThrottler[T any](s Scheduler, limit time.Duration, fn func(T)) *Throttler[T] {
	return &Throttler[T]{
		sched: orReal(s),
		limit: limit,
		fn:    fn,
	}
}

// Call invokes fn immediately unless a previous invocation is still inside its
// window. It reports whether fn ran.
func (t *Throttler[T]) Call(arg T) bool {
	t.mu.Lock()
	if t.blocked {
		t.mu.Unlock()
		return false
	}
	t.blocked = true
	t.sched.AfterFunc(t.limit, func() {
		t.mu.Lock()
		t.blocked = false
		t.mu.Unlock()
	})
	t.mu.Unlock()

	t.fn(arg)
	return true
}

// Throttle wraps fn so that it runs at most once per limit window.
func Throttle[T any](s Scheduler, limit time.Duration, fn func(T)) func(T) {
	th := NewThrottler(s, limit, fn)
	return func(arg T) {
		th.Call(arg)
	}
}

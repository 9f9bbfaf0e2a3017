// Package timerstest provides a manually driven Scheduler for tests.
package timerstest

import (
	"sync"
	"time"

	"nexus-swap/pkg/timers"
)

// FakeScheduler fires timers only when Advance moves its clock past their
// deadline. It counts stops so tests can assert on cancellation.
type FakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
	stops  int
}

type fakeTimer struct {
	s    *FakeScheduler
	at   time.Duration
	fn   func()
	done bool
}

// New returns a scheduler at time zero.
func New() *FakeScheduler {
	return &FakeScheduler{}
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	t.s.stops++
	return true
}

// AfterFunc implements timers.Scheduler.
func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) timers.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &fakeTimer{s: s, at: s.now + d, fn: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in deadline order.
// Callbacks run on the calling goroutine without the scheduler lock held.
func (s *FakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *fakeTimer
		for _, t := range s.timers {
			if t.done || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		next.done = true
		s.mu.Unlock()

		next.fn()
	}
}

// Now returns the elapsed fake time.
func (s *FakeScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of timers that have neither fired nor stopped.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// Stops returns how many timers were stopped before firing.
func (s *FakeScheduler) Stops() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

package timers

import (
	"sync"
	"time"
)

// Handle identifies a callback tracked by a TimeoutManager.
type Handle uint64

// TimeoutManager tracks deferred callbacks so they can be cancelled together.
// A callback leaves the tracked set exactly once: when it fires or when it is
// cancelled, whichever happens first.
type TimeoutManager struct {
	mu      sync.Mutex
	sched   Scheduler
	next    Handle
	pending map[Handle]Timer
}

// NewTimeoutManager returns an empty registry. A nil scheduler means
// RealScheduler.
func NewTimeoutManager(s Scheduler) *TimeoutManager {
	return &TimeoutManager{
		sched:   orReal(s),
		pending: make(map[Handle]Timer),
	}
}

// Schedule runs fn after delay unless it is cancelled first.
func (m *TimeoutManager) Schedule(fn func(), delay time.Duration) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	h := m.next
	m.pending[h] = m.sched.AfterFunc(delay, func() {
		m.mu.Lock()
		_, tracked := m.pending[h]
		delete(m.pending, h)
		m.mu.Unlock()

		if tracked {
			fn()
		}
	})
	return h
}

// Cancel stops one callback. It reports false for unknown, fired or already
// cancelled handles.
func (m *TimeoutManager) Cancel(h Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.pending[h]
	if !ok {
		return false
	}
	delete(m.pending, h)
	t.Stop()
	return true
}

// CancelAll stops every tracked callback and clears the registry.
func (m *TimeoutManager) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for h, t := range m.pending {
		t.Stop()
		delete(m.pending, h)
	}
}

// Pending returns the number of tracked callbacks.
func (m *TimeoutManager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

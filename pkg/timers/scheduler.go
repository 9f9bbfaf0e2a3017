package timers

import "time"

// Timer is a pending deferred call.
type Timer interface {
	// Stop prevents the call from running. It reports false when the call
	// already ran or was already stopped.
	Stop() bool
}

// Scheduler defers function calls.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler schedules on the runtime timer.
var RealScheduler Scheduler = realScheduler{}

func orReal(s Scheduler) Scheduler {
	if s == nil {
		return RealScheduler
	}
	return s
}

package clock

import "time"

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop cancels the timer. It returns false if the timer already
	// fired or was already stopped. Stop does not wait for a running
	// callback to finish.
	Stop() bool
}

// Clock schedules callbacks and reports the current time. Connections
// take a Clock rather than using the time package directly so heartbeat
// timing is testable without wall-clock waits.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc runs fn after d has elapsed, on an unspecified
	// goroutine.
	AfterFunc(d time.Duration, fn func()) Timer
}

// System returns the wall clock backed by the time package.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return systemTimer{t: time.AfterFunc(d, fn)}
}

type systemTimer struct {
	t *time.Timer
}

func (t systemTimer) Stop() bool {
	return t.t.Stop()
}

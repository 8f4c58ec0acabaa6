package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic Clock for tests. Time only moves when
// Advance is called; due callbacks run synchronously on the advancing
// goroutine, earliest deadline first.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
	nextID uint64
}

// NewManual creates a manual clock starting at the given time.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the manual clock's current time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc schedules fn to run when the clock has advanced by d.
// A non-positive d fires on the next Advance call.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	t := &manualTimer{
		clock:    m,
		id:       m.nextID,
		deadline: m.now.Add(d),
		fn:       fn,
	}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d and runs every callback whose
// deadline has been reached, in deadline order (scheduling order breaks
// ties). Callbacks may schedule new timers; those fire too if they fall
// within the advanced window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		t := m.popDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
}

// popDue removes and returns the earliest timer due at or before target,
// advancing the clock to its deadline. Returns nil when none are due.
func (m *Manual) popDue(target time.Time) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].deadline.Equal(m.timers[j].deadline) {
			return m.timers[i].id < m.timers[j].id
		}
		return m.timers[i].deadline.Before(m.timers[j].deadline)
	})

	for i, t := range m.timers {
		if t.deadline.After(target) {
			break
		}
		m.timers = append(m.timers[:i], m.timers[i+1:]...)
		if t.deadline.After(m.now) {
			m.now = t.deadline
		}
		return t
	}
	return nil
}

// PendingTimers returns the number of timers not yet fired or stopped.
func (m *Manual) PendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

type manualTimer struct {
	clock    *Manual
	id       uint64
	deadline time.Time
	fn       func()
}

func (t *manualTimer) Stop() bool {
	m := t.clock
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, pending := range m.timers {
		if pending.id == t.id {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}

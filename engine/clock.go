package engine

import (
	"time"
)

// Clock provides the time the engine paces frames against
type Clock interface {
	Now() time.Time
}

// SystemClock reads the monotonic wall clock
type SystemClock struct{}

// Now returns time.Now
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock only moves when told to. The engine loop is single threaded,
// so it is not safe for concurrent use.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a manual clock stopped at start
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now implements Clock
func (m *ManualClock) Now() time.Time {
	return m.now
}

// Set jumps to t, backwards included
func (m *ManualClock) Set(t time.Time) {
	m.now = t
}

// Advance moves the clock forward by d
func (m *ManualClock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

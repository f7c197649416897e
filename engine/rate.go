package engine

import "time"

// rateWindow is how long a RateCounter counts before publishing.
// The window rolls over once more than 999 ms have elapsed.
const rateWindow = 999 * time.Millisecond

// RateCounter counts frames and publishes a per-second rate
type RateCounter struct {
	start   time.Time
	started bool
	count   int64
	rate    int64
}

// Tick counts one frame at now and rolls the window when it has expired
func (rc *RateCounter) Tick(now time.Time) {
	if !rc.started {
		rc.start = now
		rc.started = true
	}

	rc.count++
	if now.Sub(rc.start) > rateWindow {
		rc.rate = rc.count
		rc.count = 0
		rc.start = now
	}
}

// Rate returns the frame count of the last completed window
func (rc *RateCounter) Rate() int64 {
	return rc.rate
}

// Count returns frames counted in the current window
func (rc *RateCounter) Count() int64 {
	return rc.count
}

// Reset clears the counter
func (rc *RateCounter) Reset() {
	*rc = RateCounter{}
}

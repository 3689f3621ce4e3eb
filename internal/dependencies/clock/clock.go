package clock

import "time"

// Clock provides time operations that can be mocked for testing.
// Referral expiry is evaluated against Clock at read time, never via
// background timers, so tests control the window by advancing a mock.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

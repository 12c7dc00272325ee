package sim

import (
	"sync"
	"time"
)

// Clock is a virtual millisecond clock. Time only moves through Advance and
// Sleep, so a whole session replays without waiting.
type Clock struct {
	// now is the current virtual time in milliseconds.
	now int64
	// slept accumulates the time spent in Sleep.
	slept time.Duration
	// mu protects now and slept.
	mu sync.Mutex
}

// NewClock creates a clock starting at startMs.
func NewClock(startMs int64) *Clock {
	return &Clock{
		now: startMs,
	}
}

// Now implements hardware.Clock.
func (c *Clock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Sleep implements hardware.Clock by advancing the virtual time.
func (c *Clock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now += d.Milliseconds()
	c.slept += d
}

// Advance moves the clock forward by d and returns the new time.
func (c *Clock) Advance(d time.Duration) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now += d.Milliseconds()

	return c.now
}

// Slept returns the total time spent in Sleep.
func (c *Clock) Slept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.slept
}

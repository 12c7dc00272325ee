package countdown

import (
	"errors"
	"fmt"
)

// secondMs is the length of one countdown second in milliseconds.
const secondMs = 1000

// ErrNonPositiveDeadline is returned when the deadline is zero or negative.
var ErrNonPositiveDeadline = errors.New("deadline must be positive")

// Timer counts whole seconds from a start tick. Each completed second moves
// the boundary to the tick that observed it, so loop latency never compounds.
type Timer struct {
	// deadline is the countdown length in seconds.
	deadline int
	// elapsed is the number of completed seconds.
	elapsed int
	// boundaryMs is the tick at which the current second started.
	boundaryMs int64
}

// NewTimer creates a timer whose first second starts at startMs.
func NewTimer(deadlineSeconds int, startMs int64) (*Timer, error) {
	if deadlineSeconds <= 0 {
		return nil, fmt.Errorf("deadline %ds: %w", deadlineSeconds, ErrNonPositiveDeadline)
	}

	return &Timer{
		deadline:   deadlineSeconds,
		boundaryMs: startMs,
	}, nil
}

// Tick advances the timer to nowMs and reports whether a second completed.
// At most one second is counted per call.
func (t *Timer) Tick(nowMs int64) bool {
	if nowMs-t.boundaryMs < secondMs {
		return false
	}

	t.elapsed++
	t.boundaryMs = nowMs

	return true
}

// Elapsed returns the number of completed seconds.
func (t *Timer) Elapsed() int {
	return t.elapsed
}

// Deadline returns the countdown length in seconds.
func (t *Timer) Deadline() int {
	return t.deadline
}

// Remaining returns the seconds left, never negative.
func (t *Timer) Remaining() int {
	return max(0, t.deadline-t.elapsed)
}

// RemainingFraction returns Remaining divided by Deadline, in [0, 1].
func (t *Timer) RemainingFraction() float64 {
	return float64(t.Remaining()) / float64(t.deadline)
}

// Expired reports whether the deadline was reached.
func (t *Timer) Expired() bool {
	return t.elapsed >= t.deadline
}

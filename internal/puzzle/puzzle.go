package puzzle

import (
	"errors"

	"github.com/oshokin/defuse-box/internal/hardware"
)

// Kind names a puzzle family.
type Kind string

const (
	// KindRange is an analog reading that must stay inside a tolerance band.
	KindRange Kind = "range"
	// KindSequence is an ordered series of button presses.
	KindSequence Kind = "sequence"
	// KindDuration is a condition that must hold for consecutive samples.
	KindDuration Kind = "duration"
)

// Puzzle is one independently solvable condition. Poll is called once per
// tick; Solved reports the flag as of the last Poll.
type Puzzle interface {
	// Name returns the configured puzzle name.
	Name() string
	// Kind returns the puzzle family.
	Kind() Kind
	// Indicator returns the LED channel showing the solved flag, or "".
	Indicator() hardware.Channel
	// Poll samples the inputs and advances the puzzle state.
	Poll(in hardware.Inputs)
	// Solved reports whether the puzzle is currently solved.
	Solved() bool
}

var (
	// ErrEmptySequence is returned when the master sequence has no tokens.
	ErrEmptySequence = errors.New("master sequence must not be empty")
	// ErrNoButtons is returned when a sequence puzzle has no button bindings.
	ErrNoButtons = errors.New("sequence puzzle needs at least one button")
	// ErrNonPositiveThreshold is returned when a duration threshold is not positive.
	ErrNonPositiveThreshold = errors.New("threshold must be positive")
	// ErrNegativeTolerance is returned when a range tolerance is negative.
	ErrNegativeTolerance = errors.New("tolerance must not be negative")
	// ErrNonPositiveSamples is returned when a debounce window is not positive.
	ErrNonPositiveSamples = errors.New("debounce samples must be positive")
	// ErrMissingChannel is returned when a puzzle has no input channel.
	ErrMissingChannel = errors.New("input channel must be provided")
	// ErrUnknownResetPolicy is returned for an unsupported sequence reset policy.
	ErrUnknownResetPolicy = errors.New("unknown reset policy")
	// ErrUnknownCircuit is returned for an unsupported wire circuit type.
	ErrUnknownCircuit = errors.New("unknown circuit type")
)

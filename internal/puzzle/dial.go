package puzzle

import (
	"fmt"

	"github.com/oshokin/defuse-box/internal/hardware"
)

// DefaultAnalogMax is the top of a 10-bit ADC reading.
const DefaultAnalogMax = 1023

// Window checks a sample against target±tolerance. It does not latch.
type Window struct {
	target    int
	tolerance int
	solved    bool
}

// NewWindow creates a window around target.
func NewWindow(target, tolerance int) (*Window, error) {
	if tolerance < 0 {
		return nil, fmt.Errorf("tolerance %d: %w", tolerance, ErrNegativeTolerance)
	}

	return &Window{
		target:    target,
		tolerance: tolerance,
	}, nil
}

// Sample evaluates value and returns the new solved flag.
func (w *Window) Sample(value int) bool {
	diff := value - w.target
	if diff < 0 {
		diff = -diff
	}

	w.solved = diff <= w.tolerance

	return w.solved
}

// Solved reports whether the last sample was inside the window.
func (w *Window) Solved() bool {
	return w.solved
}

// DialConfig describes a range puzzle on an analog channel.
type DialConfig struct {
	// Name is the puzzle name.
	Name string
	// Indicator is the LED channel, optional.
	Indicator hardware.Channel
	// Channel is the analog input.
	Channel hardware.Channel
	// Target is the reading that solves the puzzle.
	Target int
	// Tolerance is the accepted distance from Target, inclusive.
	Tolerance int
	// AnalogMax is the largest valid reading; larger ones are clamped.
	AnalogMax int
}

// Dial is a range puzzle bound to an analog channel.
type Dial struct {
	config DialConfig
	window *Window
	// value is the last clamped reading.
	value int
}

// NewDial creates a range puzzle.
func NewDial(cfg DialConfig) (*Dial, error) {
	if cfg.Channel == "" {
		return nil, fmt.Errorf("puzzle %q: %w", cfg.Name, ErrMissingChannel)
	}

	window, err := NewWindow(cfg.Target, cfg.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("puzzle %q: %w", cfg.Name, err)
	}

	if cfg.AnalogMax <= 0 {
		cfg.AnalogMax = DefaultAnalogMax
	}

	return &Dial{
		config: cfg,
		window: window,
	}, nil
}

// Name implements Puzzle.
func (d *Dial) Name() string { return d.config.Name }

// Kind implements Puzzle.
func (d *Dial) Kind() Kind { return KindRange }

// Indicator implements Puzzle.
func (d *Dial) Indicator() hardware.Channel { return d.config.Indicator }

// Poll implements Puzzle.
func (d *Dial) Poll(in hardware.Inputs) {
	d.value = min(max(in.ReadAnalog(d.config.Channel), 0), d.config.AnalogMax)
	d.window.Sample(d.value)
}

// Solved implements Puzzle.
func (d *Dial) Solved() bool { return d.window.Solved() }

// Value returns the last clamped reading.
func (d *Dial) Value() int { return d.value }

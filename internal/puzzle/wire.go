package puzzle

import (
	"fmt"

	"github.com/oshokin/defuse-box/internal/hardware"
)

// Circuit tells how a cut wire reads on its input.
type Circuit string

const (
	// CircuitNC is a normally closed loop: a cut wire reads low.
	CircuitNC Circuit = "nc"
	// CircuitNO is a normally open loop: a cut wire reads high.
	CircuitNO Circuit = "no"
)

// Hold solves once a condition was true for threshold consecutive samples,
// then stays solved.
type Hold struct {
	threshold int
	count     int
	solved    bool
}

// NewHold creates a hold requiring threshold consecutive samples.
func NewHold(threshold int) (*Hold, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("threshold %d: %w", threshold, ErrNonPositiveThreshold)
	}

	return &Hold{
		threshold: threshold,
	}, nil
}

// Sample feeds one reading of the condition and returns the solved flag.
func (h *Hold) Sample(holds bool) bool {
	if !holds {
		h.count = 0

		return h.solved
	}

	h.count++
	if h.count >= h.threshold {
		h.solved = true
	}

	return h.solved
}

// Count returns the current run of consecutive true samples.
func (h *Hold) Count() int {
	return h.count
}

// Solved reports whether the threshold was ever reached.
func (h *Hold) Solved() bool {
	return h.solved
}

// WireConfig describes a wire-cut puzzle.
type WireConfig struct {
	// Name is the puzzle name.
	Name string
	// Indicator is the LED channel, optional.
	Indicator hardware.Channel
	// Channel is the digital input wired through the loop.
	Channel hardware.Channel
	// Circuit is the loop type, CircuitNC when empty.
	Circuit Circuit
	// Threshold is the number of consecutive cut samples required.
	Threshold int
}

// Wire is a duration puzzle bound to a digital channel.
type Wire struct {
	config WireConfig
	hold   *Hold
}

// NewWire creates a wire-cut puzzle.
func NewWire(cfg WireConfig) (*Wire, error) {
	if cfg.Channel == "" {
		return nil, fmt.Errorf("puzzle %q: %w", cfg.Name, ErrMissingChannel)
	}

	switch cfg.Circuit {
	case "":
		cfg.Circuit = CircuitNC
	case CircuitNC, CircuitNO:
	default:
		return nil, fmt.Errorf("puzzle %q: circuit %q: %w", cfg.Name, cfg.Circuit, ErrUnknownCircuit)
	}

	hold, err := NewHold(cfg.Threshold)
	if err != nil {
		return nil, fmt.Errorf("puzzle %q: %w", cfg.Name, err)
	}

	return &Wire{
		config: cfg,
		hold:   hold,
	}, nil
}

// Name implements Puzzle.
func (w *Wire) Name() string { return w.config.Name }

// Kind implements Puzzle.
func (w *Wire) Kind() Kind { return KindDuration }

// Indicator implements Puzzle.
func (w *Wire) Indicator() hardware.Channel { return w.config.Indicator }

// Poll implements Puzzle.
func (w *Wire) Poll(in hardware.Inputs) {
	level := in.ReadDigital(w.config.Channel)

	cut := level
	if w.config.Circuit == CircuitNC {
		cut = !level
	}

	w.hold.Sample(cut)
}

// Solved implements Puzzle.
func (w *Wire) Solved() bool { return w.hold.Solved() }

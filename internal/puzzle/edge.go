package puzzle

import "fmt"

// Edge is a level transition between two consecutive samples.
type Edge int

const (
	// NoEdge means the level did not change.
	NoEdge Edge = iota
	// RisingEdge means the level went from low to high.
	RisingEdge
	// FallingEdge means the level went from high to low.
	FallingEdge
)

// String returns the edge name.
func (e Edge) String() string {
	switch e {
	case RisingEdge:
		return "rising"
	case FallingEdge:
		return "falling"
	default:
		return "none"
	}
}

// DetectEdge compares the previous and the current sample of a channel.
func DetectEdge(prev, cur bool) Edge {
	switch {
	case !prev && cur:
		return RisingEdge
	case prev && !cur:
		return FallingEdge
	default:
		return NoEdge
	}
}

// Debouncer accepts a new level only after it was sampled a fixed number of
// consecutive times. With one sample it degrades to a plain edge trigger.
// The stable level starts low.
type Debouncer struct {
	// samples is the number of identical samples required to flip.
	samples int
	// stable is the accepted level.
	stable bool
	// pending counts consecutive samples that differ from stable.
	pending int
}

// NewDebouncer creates a debouncer requiring samples consecutive readings.
func NewDebouncer(samples int) (*Debouncer, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("debouncer with %d samples: %w", samples, ErrNonPositiveSamples)
	}

	return &Debouncer{
		samples: samples,
	}, nil
}

// Sample feeds one raw reading and returns the stable level with the edge it
// produced, if any.
func (d *Debouncer) Sample(raw bool) (bool, Edge) {
	if raw == d.stable {
		d.pending = 0

		return d.stable, NoEdge
	}

	d.pending++
	if d.pending < d.samples {
		return d.stable, NoEdge
	}

	prev := d.stable
	d.stable = raw
	d.pending = 0

	return d.stable, DetectEdge(prev, d.stable)
}

// Stable returns the accepted level.
func (d *Debouncer) Stable() bool {
	return d.stable
}

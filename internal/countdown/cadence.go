package countdown

import (
	"errors"
	"fmt"
	"time"
)

// DecayFunc maps the remaining fraction of the countdown to a multiplier of
// the initial inter-pulse delay.
type DecayFunc func(remainingFraction float64) float64

// Named decay functions accepted by ParseDecay.
const (
	DecayLinear    = "linear"
	DecayQuadratic = "quadratic"
	DecayConstant  = "constant"
)

var (
	// ErrUnknownDecay is returned for an unsupported decay name.
	ErrUnknownDecay = errors.New("unknown decay function")
	// ErrNonPositiveDelay is returned when a cadence delay is not positive.
	ErrNonPositiveDelay = errors.New("cadence delay must be positive")
)

// ParseDecay returns the decay function registered under name. An empty name
// selects linear decay.
func ParseDecay(name string) (DecayFunc, error) {
	switch name {
	case "", DecayLinear:
		return func(f float64) float64 { return f }, nil
	case DecayQuadratic:
		return func(f float64) float64 { return f * f }, nil
	case DecayConstant:
		return func(float64) float64 { return 1 }, nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownDecay)
	}
}

// CadenceConfig describes the countdown beeps.
type CadenceConfig struct {
	// InitialDelay is the delay between pulses with the full countdown left.
	InitialDelay time.Duration
	// MinDelay bounds the delay from below.
	MinDelay time.Duration
	// Pulse is how long each beep lasts.
	Pulse time.Duration
	// Decay shrinks the delay as time runs out; linear when nil.
	Decay DecayFunc
}

// Cadence schedules alarm pulses without blocking the caller.
type Cadence struct {
	config CadenceConfig
	// nextPulseMs is the tick at which the next pulse starts.
	nextPulseMs int64
	// pulseEndMs is the tick at which the current pulse stops.
	pulseEndMs int64
	// started is set on the first Update.
	started bool
}

// NewCadence creates a cadence.
func NewCadence(cfg CadenceConfig) (*Cadence, error) {
	if cfg.InitialDelay <= 0 || cfg.MinDelay <= 0 || cfg.Pulse <= 0 {
		return nil, ErrNonPositiveDelay
	}

	if cfg.Decay == nil {
		cfg.Decay, _ = ParseDecay(DecayLinear)
	}

	return &Cadence{
		config: cfg,
	}, nil
}

// Delay returns the silence between two pulses for the remaining fraction.
func (c *Cadence) Delay(remainingFraction float64) time.Duration {
	scaled := time.Duration(float64(c.config.InitialDelay) * c.config.Decay(remainingFraction))

	return max(c.config.MinDelay, scaled)
}

// Update advances the schedule to nowMs and returns whether the alarm should
// sound. The first pulse starts one delay after the first update; each later
// pulse starts one delay after the previous one ends.
func (c *Cadence) Update(nowMs int64, remainingFraction float64) bool {
	if !c.started {
		c.started = true
		c.nextPulseMs = nowMs + c.Delay(remainingFraction).Milliseconds()
	}

	if nowMs >= c.nextPulseMs {
		c.pulseEndMs = nowMs + c.config.Pulse.Milliseconds()
		c.nextPulseMs = c.pulseEndMs + c.Delay(remainingFraction).Milliseconds()
	}

	return nowMs < c.pulseEndMs
}

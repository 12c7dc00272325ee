package puzzle

import (
	"fmt"
	"slices"

	"github.com/oshokin/defuse-box/internal/domain/bomb"
	"github.com/oshokin/defuse-box/internal/hardware"
)

// ResetPolicy decides what survives a mismatching token.
type ResetPolicy string

const (
	// ResetKeepSeed restarts the attempt with the mismatching token as its
	// first entry, so a wrong press may still begin a fresh correct run.
	ResetKeepSeed ResetPolicy = "keep_seed"
	// ResetClear discards the whole attempt.
	ResetClear ResetPolicy = "clear"
)

// Matcher compares a growing player sequence with a fixed master sequence.
// The entered buffer never grows past the master length.
type Matcher struct {
	// master is the sequence to reproduce.
	master []bomb.Token
	// entered is the current attempt; every entry after the first matches master.
	entered []bomb.Token
	// policy is applied on mismatch.
	policy ResetPolicy
	// solved latches once the whole master sequence was entered.
	solved bool
}

// NewMatcher creates a matcher for a non-empty master sequence.
func NewMatcher(master []bomb.Token, policy ResetPolicy) (*Matcher, error) {
	if len(master) == 0 {
		return nil, ErrEmptySequence
	}

	switch policy {
	case "":
		policy = ResetKeepSeed
	case ResetKeepSeed, ResetClear:
	default:
		return nil, fmt.Errorf("%q: %w", policy, ErrUnknownResetPolicy)
	}

	return &Matcher{
		master:  slices.Clone(master),
		entered: make([]bomb.Token, 0, len(master)),
		policy:  policy,
	}, nil
}

// OnToken appends one token to the attempt. Tokens are ignored once solved.
func (m *Matcher) OnToken(token bomb.Token) {
	if m.solved {
		return
	}

	// A kept seed that cannot start the master sequence is replaced.
	if len(m.entered) > 0 && m.entered[0] != m.master[0] {
		m.entered = m.entered[:0]
	}

	index := len(m.entered)
	m.entered = append(m.entered, token)

	if token != m.master[index] {
		m.entered = m.entered[:0]
		if m.policy == ResetKeepSeed {
			m.entered = append(m.entered, token)
		}

		return
	}

	if len(m.entered) == len(m.master) {
		m.solved = true
	}
}

// Progress returns the number of tokens in the current attempt.
func (m *Matcher) Progress() int {
	return len(m.entered)
}

// Entered returns a copy of the current attempt.
func (m *Matcher) Entered() []bomb.Token {
	return slices.Clone(m.entered)
}

// Solved reports whether the master sequence was entered.
func (m *Matcher) Solved() bool {
	return m.solved
}

// SequenceConfig describes a button sequence puzzle.
type SequenceConfig struct {
	// Name is the puzzle name.
	Name string
	// Indicator is the LED channel, optional.
	Indicator hardware.Channel
	// Buttons maps each button channel to the token it produces.
	Buttons map[hardware.Channel]bomb.Token
	// Master is the sequence to enter.
	Master []bomb.Token
	// DebounceSamples is the number of identical samples a press needs.
	DebounceSamples int
	// Reset is the mismatch policy.
	Reset ResetPolicy
}

// Sequence is a button sequence puzzle. A press is the rising edge of a
// debounced button level.
type Sequence struct {
	// config is the puzzle configuration.
	config SequenceConfig
	// channels lists button channels in a stable polling order.
	channels []hardware.Channel
	// debouncers holds one filter per button.
	debouncers map[hardware.Channel]*Debouncer
	// matcher tracks the entered tokens.
	matcher *Matcher
}

// NewSequence creates a sequence puzzle.
func NewSequence(cfg SequenceConfig) (*Sequence, error) {
	if len(cfg.Buttons) == 0 {
		return nil, fmt.Errorf("puzzle %q: %w", cfg.Name, ErrNoButtons)
	}

	matcher, err := NewMatcher(cfg.Master, cfg.Reset)
	if err != nil {
		return nil, fmt.Errorf("puzzle %q: %w", cfg.Name, err)
	}

	if cfg.DebounceSamples == 0 {
		cfg.DebounceSamples = 1
	}

	s := &Sequence{
		config:     cfg,
		debouncers: make(map[hardware.Channel]*Debouncer, len(cfg.Buttons)),
		matcher:    matcher,
	}

	for ch := range cfg.Buttons {
		if ch == "" {
			return nil, fmt.Errorf("puzzle %q: %w", cfg.Name, ErrMissingChannel)
		}

		d, err := NewDebouncer(cfg.DebounceSamples)
		if err != nil {
			return nil, fmt.Errorf("puzzle %q: %w", cfg.Name, err)
		}

		s.debouncers[ch] = d
		s.channels = append(s.channels, ch)
	}

	slices.Sort(s.channels)

	return s, nil
}

// Name implements Puzzle.
func (s *Sequence) Name() string { return s.config.Name }

// Kind implements Puzzle.
func (s *Sequence) Kind() Kind { return KindSequence }

// Indicator implements Puzzle.
func (s *Sequence) Indicator() hardware.Channel { return s.config.Indicator }

// Poll implements Puzzle.
func (s *Sequence) Poll(in hardware.Inputs) {
	for _, ch := range s.channels {
		if _, edge := s.debouncers[ch].Sample(in.ReadDigital(ch)); edge == RisingEdge {
			s.matcher.OnToken(s.config.Buttons[ch])
		}
	}
}

// Solved implements Puzzle.
func (s *Sequence) Solved() bool { return s.matcher.Solved() }

// Progress returns the number of tokens in the current attempt.
func (s *Sequence) Progress() int { return s.matcher.Progress() }

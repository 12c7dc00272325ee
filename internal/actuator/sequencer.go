package actuator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/oshokin/defuse-box/internal/domain/bomb"
	"github.com/oshokin/defuse-box/internal/hardware"
	"github.com/oshokin/defuse-box/internal/logger"
)

// ServoFrame is the interval between two servo position updates (50 Hz).
const ServoFrame = 20 * time.Millisecond

// Texts shown on the display by the terminal sequences.
const (
	DefusedText   = "DEFUSED"
	DetonatedText = "BOOM!"
)

var (
	// ErrAlreadyFired is returned when a second terminal sequence is requested.
	ErrAlreadyFired = errors.New("terminal sequence already fired")
	// ErrNotTerminal is returned when the outcome is still pending.
	ErrNotTerminal = errors.New("outcome is not terminal")
	// ErrNonPositiveServoRate is returned when the sweep rate is not positive.
	ErrNonPositiveServoRate = errors.New("servo rate must be positive")
)

// Config describes the terminal sequences.
type Config struct {
	// AckBeep is the length of the defusal chirp.
	AckBeep time.Duration
	// AlarmHold is how long the alarm sounds before the servo moves.
	AlarmHold time.Duration
	// ServoStart is the angle the sweep starts from.
	ServoStart int
	// ServoEnd is the angle the sweep stops at.
	ServoEnd int
	// ServoRate is the sweep speed in degrees per second.
	ServoRate float64
	// Indicators lists every LED channel to paint on the terminal transition.
	Indicators []hardware.Channel
}

// Sequencer drives the terminal actuation.
type Sequencer struct {
	config Config
	board  hardware.Board
	clock  hardware.Clock
	// fired latches on the first Fire call.
	fired atomic.Bool
}

// NewSequencer creates a sequencer writing to board and sleeping on clock.
func NewSequencer(cfg Config, board hardware.Board, clock hardware.Clock) (*Sequencer, error) {
	if cfg.ServoRate <= 0 {
		return nil, fmt.Errorf("servo rate %.2f: %w", cfg.ServoRate, ErrNonPositiveServoRate)
	}

	return &Sequencer{
		config: cfg,
		board:  board,
		clock:  clock,
	}, nil
}

// Fire runs the sequence for outcome and blocks until it completes.
func (s *Sequencer) Fire(ctx context.Context, outcome bomb.Outcome) error {
	if !outcome.IsTerminal() {
		return fmt.Errorf("fire %s: %w", outcome, ErrNotTerminal)
	}

	if !s.fired.CompareAndSwap(false, true) {
		return ErrAlreadyFired
	}

	logger.InfoKV(ctx, "Terminal sequence started", "outcome", outcome.String())

	if outcome == bomb.Defused {
		s.defuse()
	} else {
		s.detonate()
	}

	logger.InfoKV(ctx, "Terminal sequence finished", "outcome", outcome.String())

	return nil
}

// Fired reports whether Fire has run.
func (s *Sequencer) Fired() bool {
	return s.fired.Load()
}

// defuse shows the acknowledgment: green indicators, text and a short chirp.
func (s *Sequencer) defuse() {
	s.paint(hardware.Green)

	s.board.DisplayHome()
	s.board.Display(DefusedText)

	s.board.SetAlarm(true)
	s.clock.Sleep(s.config.AckBeep)
	s.board.SetAlarm(false)
}

// detonate holds the alarm, sweeps the servo and shows the final text.
func (s *Sequencer) detonate() {
	s.paint(hardware.Red)

	s.board.SetAlarm(true)
	s.clock.Sleep(s.config.AlarmHold)
	s.board.SetAlarm(false)

	s.sweep()

	s.board.DisplayHome()
	s.board.Display(DetonatedText)
}

// sweep moves the servo from ServoStart to ServoEnd one frame at a time.
func (s *Sequencer) sweep() {
	var (
		start    = float64(s.config.ServoStart)
		distance = float64(s.config.ServoEnd - s.config.ServoStart)
		seconds  = math.Abs(distance) / s.config.ServoRate
		frames   = int(math.Ceil(seconds/ServoFrame.Seconds() - 1e-9))
	)

	s.board.SetServoAngle(s.config.ServoStart)

	for frame := 1; frame <= frames; frame++ {
		s.clock.Sleep(ServoFrame)

		position := start + distance*float64(frame)/float64(frames)
		s.board.SetServoAngle(int(math.Round(position)))
	}
}

// paint sets every configured indicator to c.
func (s *Sequencer) paint(c hardware.Color) {
	for _, ch := range s.config.Indicators {
		s.board.SetIndicatorColor(ch, c)
	}
}

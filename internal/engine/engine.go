package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/oshokin/defuse-box/internal/actuator"
	"github.com/oshokin/defuse-box/internal/countdown"
	"github.com/oshokin/defuse-box/internal/domain/bomb"
	"github.com/oshokin/defuse-box/internal/hardware"
	"github.com/oshokin/defuse-box/internal/logger"
	"github.com/oshokin/defuse-box/internal/puzzle"
)

// minDisplayWidth is the minimum number of digits shown for the countdown.
const minDisplayWidth = 2

var (
	// ErrNoPuzzles is returned when the engine is built without puzzles.
	ErrNoPuzzles = errors.New("at least one puzzle must be configured")
	// ErrDuplicatePuzzle is returned when two puzzles share a name.
	ErrDuplicatePuzzle = errors.New("duplicate puzzle name")
)

// Config holds everything the host supplies at construction.
type Config struct {
	// DeadlineSeconds is the countdown length.
	DeadlineSeconds int
	// Puzzles is the fixed set of puzzles that must all be solved.
	Puzzles []puzzle.Puzzle
	// Cadence configures the countdown beeps.
	Cadence countdown.CadenceConfig
	// Actuation configures the terminal sequences. When Indicators is empty,
	// the puzzle indicators are used.
	Actuation actuator.Config
}

// Engine runs one session.
type Engine struct {
	// board provides inputs and receives outputs.
	board hardware.Board
	// timer counts the deadline.
	timer *countdown.Timer
	// cadence schedules the countdown beeps.
	cadence *countdown.Cadence
	// sequencer fires the terminal actuation.
	sequencer *actuator.Sequencer
	// puzzles is the fixed puzzle set.
	puzzles []puzzle.Puzzle
	// status mirrors the solved flag of each puzzle.
	status []bomb.PuzzleStatus
	// colors caches the last color written per indicator.
	colors map[hardware.Channel]hardware.Color
	// outcome is the session result.
	outcome bomb.Outcome
	// finishedAtMs is the tick of the terminal transition.
	finishedAtMs int64
	// width is the number of digits of the countdown display.
	width int
	// alarm is the alarm state last written by the cadence.
	alarm bool
	// rendered is set after the first output update.
	rendered bool
}

// New validates cfg and builds an engine whose countdown starts at startMs.
func New(ctx context.Context, cfg Config, board hardware.Board, clock hardware.Clock, startMs int64) (*Engine, error) {
	if len(cfg.Puzzles) == 0 {
		return nil, ErrNoPuzzles
	}

	timer, err := countdown.NewTimer(cfg.DeadlineSeconds, startMs)
	if err != nil {
		return nil, fmt.Errorf("create timer: %w", err)
	}

	cadence, err := countdown.NewCadence(cfg.Cadence)
	if err != nil {
		return nil, fmt.Errorf("create cadence: %w", err)
	}

	var (
		names      = make(map[string]struct{}, len(cfg.Puzzles))
		status     = make([]bomb.PuzzleStatus, 0, len(cfg.Puzzles))
		indicators = len(cfg.Actuation.Indicators) == 0
	)

	for _, p := range cfg.Puzzles {
		if _, ok := names[p.Name()]; ok {
			return nil, fmt.Errorf("%q: %w", p.Name(), ErrDuplicatePuzzle)
		}

		names[p.Name()] = struct{}{}

		status = append(status, bomb.PuzzleStatus{
			Name:       p.Name(),
			Kind:       string(p.Kind()),
			SolvedAtMs: -1,
		})

		if indicators && p.Indicator() != "" {
			cfg.Actuation.Indicators = append(cfg.Actuation.Indicators, p.Indicator())
		}
	}

	sequencer, err := actuator.NewSequencer(cfg.Actuation, board, clock)
	if err != nil {
		return nil, fmt.Errorf("create sequencer: %w", err)
	}

	logger.InfoKV(ctx, "Bomb armed",
		"deadline_seconds", cfg.DeadlineSeconds,
		"puzzles", len(cfg.Puzzles),
	)

	return &Engine{
		board:        board,
		timer:        timer,
		cadence:      cadence,
		sequencer:    sequencer,
		puzzles:      cfg.Puzzles,
		status:       status,
		colors:       make(map[hardware.Channel]hardware.Color),
		outcome:      bomb.Pending,
		finishedAtMs: -1,
		width:        max(minDisplayWidth, len(strconv.Itoa(cfg.DeadlineSeconds))),
	}, nil
}

// Tick advances the session to nowMs and returns the outcome. A terminal
// transition runs the blocking terminal sequence before Tick returns.
func (e *Engine) Tick(ctx context.Context, nowMs int64) bomb.Outcome {
	if e.outcome.IsTerminal() {
		return e.outcome
	}

	secondPassed := e.timer.Tick(nowMs)
	if e.timer.Expired() {
		e.finish(ctx, nowMs, bomb.Detonated)

		return e.outcome
	}

	allSolved := true

	for i, p := range e.puzzles {
		p.Poll(e.board)
		e.track(ctx, i, p.Solved(), nowMs)

		allSolved = allSolved && p.Solved()
	}

	if allSolved {
		e.finish(ctx, nowMs, bomb.Defused)

		return e.outcome
	}

	e.render(ctx, nowMs, secondPassed)

	return e.outcome
}

// Outcome returns the current session outcome.
func (e *Engine) Outcome() bomb.Outcome {
	return e.outcome
}

// Snapshot returns the session status.
func (e *Engine) Snapshot() *bomb.Snapshot {
	s := &bomb.Snapshot{
		Outcome:          e.outcome,
		ElapsedSeconds:   e.timer.Elapsed(),
		RemainingSeconds: e.timer.Remaining(),
		DeadlineSeconds:  e.timer.Deadline(),
		FinishedAtMs:     e.finishedAtMs,
		Puzzles:          e.status,
	}

	return s.Clone()
}

// Actuated reports whether the terminal sequence has run.
func (e *Engine) Actuated() bool {
	return e.sequencer.Fired()
}

// track records solved-flag transitions of puzzle i.
func (e *Engine) track(ctx context.Context, i int, solved bool, nowMs int64) {
	status := &e.status[i]
	if status.Solved == solved {
		return
	}

	status.Solved = solved

	if solved {
		status.SolvedAtMs = nowMs
		logger.InfoKV(ctx, "Puzzle solved", "puzzle", status.Name, "kind", status.Kind, "at_ms", nowMs)

		return
	}

	logger.InfoKV(ctx, "Puzzle no longer solved", "puzzle", status.Name, "kind", status.Kind, "at_ms", nowMs)
}

// finish latches the terminal outcome and fires the terminal sequence.
func (e *Engine) finish(ctx context.Context, nowMs int64, outcome bomb.Outcome) {
	e.outcome = outcome
	e.finishedAtMs = nowMs

	logger.InfoKV(ctx, "Session finished",
		"outcome", outcome.String(),
		"elapsed_seconds", e.timer.Elapsed(),
		"at_ms", nowMs,
	)

	if err := e.sequencer.Fire(ctx, outcome); err != nil {
		logger.ErrorKV(ctx, "Terminal sequence failed", "error", err)
	}
}

// render updates the countdown display, the indicators and the beeps.
func (e *Engine) render(ctx context.Context, nowMs int64, secondPassed bool) {
	first := !e.rendered
	e.rendered = true

	if first || secondPassed {
		remaining := e.timer.Remaining()

		e.board.DisplayHome()
		e.board.Display(fmt.Sprintf("%0*d", e.width, remaining))

		logger.DebugKV(ctx, "Countdown", "remaining_seconds", remaining)
	}

	for i, p := range e.puzzles {
		ch := p.Indicator()
		if ch == "" {
			continue
		}

		color := hardware.Red
		if e.status[i].Solved {
			color = hardware.Green
		}

		if last, ok := e.colors[ch]; ok && last == color {
			continue
		}

		e.colors[ch] = color
		e.board.SetIndicatorColor(ch, color)
	}

	if alarm := e.cadence.Update(nowMs, e.timer.RemainingFraction()); alarm != e.alarm {
		e.alarm = alarm
		e.board.SetAlarm(alarm)
	}
}

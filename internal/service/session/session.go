package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/oshokin/defuse-box/internal/config"
	"github.com/oshokin/defuse-box/internal/domain/bomb"
	"github.com/oshokin/defuse-box/internal/engine"
	"github.com/oshokin/defuse-box/internal/hardware"
	"github.com/oshokin/defuse-box/internal/hardware/periph"
	"github.com/oshokin/defuse-box/internal/hardware/sim"
	"github.com/oshokin/defuse-box/internal/logger"
	"github.com/oshokin/defuse-box/internal/report"
)

// Options controls one session.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Backend overrides the configured hardware backend.
	Backend string
	// ReportPath is where the report is written; Output is used when empty.
	ReportPath string
	// Display receives the countdown text.
	Display io.Writer
	// Output receives the report when no ReportPath is set.
	Output io.Writer
}

// ErrUnknownKind is returned for a puzzle kind the session cannot build.
var ErrUnknownKind = errors.New("unknown puzzle kind")

// session is one armed bomb with its board.
type session struct {
	// id identifies the session in logs and the report.
	id string
	// backend is the hardware backend name.
	backend string
	// board is what the engine drives.
	board hardware.Board
	// inputs is the simulated board the script writes to, nil on real hardware.
	inputs *sim.Board
	// script replays simulated inputs.
	script *sim.Script
	// closer releases real hardware.
	closer io.Closer
	// engine runs the puzzles.
	engine *engine.Engine
	// startMs is the clock reading at arming.
	startMs int64
	// startedAt is the wall-clock start.
	startedAt time.Time
}

// mirrorBoard is a simulated board whose display is also written to a console.
type mirrorBoard struct {
	*sim.Board

	console *hardware.ConsoleDisplay
}

// Display implements hardware.Display.
func (b *mirrorBoard) Display(text string) {
	b.Board.Display(text)
	b.console.Display(text)
}

// DisplayHome implements hardware.Display.
func (b *mirrorBoard) DisplayHome() {
	b.Board.DisplayHome()
	b.console.DisplayHome()
}

// loadConfig reads the settings and applies the backend override.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.Backend != "" {
		cfg.Backend = opts.Backend
		if err = config.Validate(cfg); err != nil {
			return nil, fmt.Errorf("validate settings: %w", err)
		}
	}

	return cfg, nil
}

// open builds the board and arms the engine at the current clock reading.
func open(ctx context.Context, cfg *config.Config, display io.Writer, clock hardware.Clock) (*session, error) {
	ec, err := engineConfig(cfg)
	if err != nil {
		return nil, err
	}

	s := &session{
		id:        ulid.Make().String(),
		backend:   cfg.Backend,
		startedAt: time.Now(),
	}

	switch cfg.Backend {
	case config.BackendPeriph:
		pc := periphConfig(cfg.Periph)
		pc.Display = display

		board, err := periph.Open(ctx, pc)
		if err != nil {
			return nil, fmt.Errorf("open board: %w", err)
		}

		s.board = board
		s.closer = board
	default:
		s.inputs = sim.NewBoard()
		s.script = buildScript(cfg.Simulation.Events)
		s.board = &mirrorBoard{
			Board:   s.inputs,
			console: hardware.NewConsoleDisplay(display),
		}
	}

	s.startMs = clock.Now()

	s.engine, err = engine.New(ctx, ec, s.board, clock, s.startMs)
	if err != nil {
		s.close(ctx)

		return nil, fmt.Errorf("arm bomb: %w", err)
	}

	return s, nil
}

// tick feeds scripted inputs and advances the engine.
func (s *session) tick(ctx context.Context, nowMs int64) bomb.Outcome {
	if s.script != nil {
		s.script.Apply(s.inputs, nowMs-s.startMs)
	}

	return s.engine.Tick(ctx, nowMs)
}

// close releases the hardware.
func (s *session) close(ctx context.Context) {
	if s.closer == nil {
		return
	}

	if err := s.closer.Close(); err != nil {
		logger.WarnKV(ctx, "Failed to release board", "error", err)
	}
}

// report summarizes the session as of finishedAt.
func (s *session) report(ctx context.Context, finishedAt time.Time) *report.Report {
	operator, err := report.DetectOperator()
	if err != nil {
		logger.WarnKV(ctx, "Failed to detect operator", "error", err)
	}

	return &report.Report{
		SessionID:  s.id,
		Backend:    s.backend,
		Operator:   operator,
		StartedAt:  s.startedAt,
		FinishedAt: finishedAt,
		Snapshot:   s.engine.Snapshot(),
		Actuated:   s.engine.Actuated(),
	}
}

// writeReport sends the report to the configured destination.
func writeReport(ctx context.Context, opts *Options, r *report.Report) error {
	switch {
	case opts.ReportPath != "":
		if err := report.WriteFile(opts.ReportPath, r); err != nil {
			return err
		}

		logger.InfoKV(ctx, "Report written", "path", opts.ReportPath)
	case opts.Output != nil:
		if err := report.Write(opts.Output, r); err != nil {
			return err
		}
	}

	return nil
}

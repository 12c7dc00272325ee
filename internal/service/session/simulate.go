package session

import (
	"context"
	"time"

	"github.com/oshokin/defuse-box/internal/config"
	"github.com/oshokin/defuse-box/internal/hardware/sim"
	"github.com/oshokin/defuse-box/internal/logger"
)

// Simulate replays the configured input script on a virtual clock, stepping
// by the simulation step, and writes the report. The backend is always the
// simulated one. Report timestamps are the wall-clock start plus virtual
// time.
func Simulate(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "simulate")

	cfg, err := loadConfig(&Options{ConfigPath: opts.ConfigPath, Backend: config.BackendSim})
	if err != nil {
		return err
	}

	clock := sim.NewClock(0)

	s, err := open(ctx, cfg, opts.Display, clock)
	if err != nil {
		return err
	}

	ctx = logger.WithKV(ctx, "session_id", s.id)

	logger.InfoKV(ctx, "Simulation started",
		"step", cfg.Simulation.Step,
		"events", len(cfg.Simulation.Events),
	)

	for !s.tick(ctx, clock.Now()).IsTerminal() {
		if ctx.Err() != nil {
			logger.InfoKV(ctx, "Simulation aborted", "reason", ctx.Err())

			break
		}

		clock.Advance(cfg.Simulation.Step)
	}

	finishedAt := s.startedAt.Add(time.Duration(clock.Now()-s.startMs) * time.Millisecond)

	return writeReport(ctx, opts, s.report(ctx, finishedAt))
}

package session

import (
	"context"
	"time"

	"github.com/oshokin/defuse-box/internal/hardware"
	"github.com/oshokin/defuse-box/internal/logger"
	"github.com/oshokin/defuse-box/internal/version"
)

// Run arms the bomb and polls it on the wall clock until it is defused,
// detonates or ctx is canceled. A report is written in every case.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "session")

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	clock := hardware.NewSystemClock()

	s, err := open(ctx, cfg, opts.Display, clock)
	if err != nil {
		return err
	}

	defer s.close(ctx)

	ctx = logger.WithKV(ctx, "session_id", s.id)

	logger.InfoKV(ctx, "Session started", append(version.Fields(),
		"backend", s.backend,
		"poll_interval", cfg.PollInterval,
	)...)

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for !s.tick(ctx, clock.Now()).IsTerminal() {
		select {
		case <-ctx.Done():
			logger.InfoKV(ctx, "Session aborted", "reason", ctx.Err())

			return writeReport(ctx, opts, s.report(ctx, time.Now()))
		case <-ticker.C:
		}
	}

	return writeReport(ctx, opts, s.report(ctx, time.Now()))
}

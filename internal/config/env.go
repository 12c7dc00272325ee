package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// overrides lists the settings that may come from the environment.
type overrides struct {
	DeadlineSeconds int           `env:"DEFUSE_DEADLINE"`
	PollInterval    time.Duration `env:"DEFUSE_POLL_INTERVAL"`
	Backend         string        `env:"DEFUSE_BACKEND"`
	LogLevel        string        `env:"DEFUSE_LOG_LEVEL"`
}

// ApplyEnv overrides cfg with every DEFUSE_* variable that is set.
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	var o overrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.DeadlineSeconds != 0 {
		cfg.DeadlineSeconds = o.DeadlineSeconds
	}

	if o.PollInterval != 0 {
		cfg.PollInterval = o.PollInterval
	}

	if o.Backend != "" {
		cfg.Backend = o.Backend
	}

	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}

	return nil
}

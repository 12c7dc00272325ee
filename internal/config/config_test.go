package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, rejected values and filled defaults.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing deadline.
	err := Validate(new(Config))
	require.ErrorIs(t, err, errDeadlineRequired)

	// Missing puzzles.
	err = Validate(&Config{DeadlineSeconds: 10})
	require.ErrorIs(t, err, errPuzzlesRequired)

	// Bad backend.
	err = Validate(&Config{DeadlineSeconds: 10, Backend: "arduino"})
	require.ErrorIs(t, err, errUnknownBackend)

	// Bad kind.
	err = Validate(&Config{DeadlineSeconds: 10, Puzzles: []PuzzleConfig{{Kind: "riddle"}}})
	require.ErrorIs(t, err, errUnknownKind)

	// Okay with defaults filled.
	cfg := &Config{
		DeadlineSeconds: 10,
		Puzzles:         []PuzzleConfig{{Kind: KindRange, Channel: "dial"}},
	}

	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultPollInterval, cfg.PollInterval)
	require.Equal(t, BackendSim, cfg.Backend)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, time.Second, cfg.Alarm.InitialDelay)
	require.Equal(t, 3*time.Second, cfg.Actuation.AlarmHold)
	require.Equal(t, "range-1", cfg.Puzzles[0].Name)
	require.Equal(t, DefaultSimulationStep, cfg.Simulation.Step)
}

// TestSaveLoadRoundtrip ensures the default settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	settings := Default()

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.ErrorIs(t, Save(path, nil), errConfigIsNotSet)
}

// TestLoad_ParsesDurations verifies human-readable durations in YAML.
func TestLoad_ParsesDurations(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := `
deadline_seconds: 10
poll_interval: 2ms
alarm:
  initial_delay: 1500ms
  decay: quadratic
puzzles:
  - kind: duration
    channel: wire
    threshold: 20
simulation:
  events:
    - at: 3s
      digital:
        wire: false
`
	require.NoError(t, os.WriteFile(path, []byte(contents), DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2*time.Millisecond, cfg.PollInterval)
	require.Equal(t, 1500*time.Millisecond, cfg.Alarm.InitialDelay)
	require.Equal(t, "quadratic", cfg.Alarm.Decay)
	require.Equal(t, 3*time.Second, cfg.Simulation.Events[0].At)
	require.Equal(t, "duration-1", cfg.Puzzles[0].Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// TestApplyEnv verifies that DEFUSE_* variables override file settings.
func TestApplyEnv(t *testing.T) {
	t.Setenv("DEFUSE_DEADLINE", "45")
	t.Setenv("DEFUSE_POLL_INTERVAL", "20ms")
	t.Setenv("DEFUSE_BACKEND", "periph")
	t.Setenv("DEFUSE_LOG_LEVEL", "debug")

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg))
	require.Equal(t, 45, cfg.DeadlineSeconds)
	require.Equal(t, 20*time.Millisecond, cfg.PollInterval)
	require.Equal(t, BackendPeriph, cfg.Backend)
	require.Equal(t, "debug", cfg.LogLevel)

	require.ErrorIs(t, ApplyEnv(nil), errConfigIsNotSet)

	t.Setenv("DEFUSE_DEADLINE", "soon")
	require.Error(t, ApplyEnv(Default()))
}

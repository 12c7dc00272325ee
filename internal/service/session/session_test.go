package session

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/oshokin/defuse-box/internal/config"
	"github.com/oshokin/defuse-box/internal/countdown"
	"github.com/oshokin/defuse-box/internal/hardware"
	"github.com/oshokin/defuse-box/internal/hardware/sim"
	"github.com/oshokin/defuse-box/internal/puzzle"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// writeConfig saves cfg into a temporary directory and returns its path.
func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.DefaultConfigFilename)
	require.NoError(t, config.Save(path, cfg))

	return path
}

// decode parses a JSON report.
func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	return fields
}

// shortConfig returns a five-second bomb with a single wire and no script.
func shortConfig() *config.Config {
	cfg := config.Default()
	cfg.DeadlineSeconds = 5
	cfg.Puzzles = []config.PuzzleConfig{
		{Name: "wire", Kind: config.KindDuration, Channel: "wire", Threshold: 3},
	}
	cfg.Simulation.Events = []config.EventConfig{
		{At: 0, Digital: map[string]bool{"wire": true}},
	}

	return cfg
}

// TestSimulateDefaultScenario verifies the sample configuration defuses the bomb.
func TestSimulateDefaultScenario(t *testing.T) {
	t.Parallel()

	var (
		output  bytes.Buffer
		display bytes.Buffer
	)

	err := Simulate(context.Background(), &Options{
		ConfigPath: writeConfig(t, config.Default()),
		Display:    &display,
		Output:     &output,
	})
	require.NoError(t, err)

	fields := decode(t, output.Bytes())
	require.Equal(t, "defused", fields["outcome"])
	require.Equal(t, true, fields["actuated"])
	require.Equal(t, config.BackendSim, fields["backend"])
	require.InDelta(t, 15190, fields["finished_at_ms"], 0)
	require.InDelta(t, 15, fields["elapsed_seconds"], 0)
	require.NotEmpty(t, fields["session_id"])

	puzzles, ok := fields["puzzles"].([]any)
	require.True(t, ok)
	require.Len(t, puzzles, 3)

	for _, p := range puzzles {
		status, ok := p.(map[string]any)
		require.True(t, ok)
		require.Equal(t, true, status["solved"], status["name"])
	}

	require.Contains(t, display.String(), "\r60")
	require.Contains(t, display.String(), "DEFUSED")
}

// TestSimulateDetonation verifies an unsolved bomb detonates at the deadline.
func TestSimulateDetonation(t *testing.T) {
	t.Parallel()

	var (
		output  bytes.Buffer
		display bytes.Buffer
	)

	err := Simulate(context.Background(), &Options{
		ConfigPath: writeConfig(t, shortConfig()),
		Display:    &display,
		Output:     &output,
	})
	require.NoError(t, err)

	fields := decode(t, output.Bytes())
	require.Equal(t, "detonated", fields["outcome"])
	require.Equal(t, true, fields["actuated"])
	require.InDelta(t, 5000, fields["finished_at_ms"], 0)
	require.InDelta(t, 0, fields["remaining_seconds"], 0)
	require.Contains(t, display.String(), "BOOM!")
}

// TestSimulateReportFile verifies the report goes to the requested file.
func TestSimulateReportFile(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer

	path := filepath.Join(t.TempDir(), "report.json")

	err := Simulate(context.Background(), &Options{
		ConfigPath: writeConfig(t, shortConfig()),
		ReportPath: path,
		Output:     &output,
	})
	require.NoError(t, err)
	require.Empty(t, output.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "detonated", decode(t, data)["outcome"])
}

// TestSimulateMissingConfig verifies load errors are returned.
func TestSimulateMissingConfig(t *testing.T) {
	t.Parallel()

	err := Simulate(context.Background(), &Options{
		ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"),
	})
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestRunDefused verifies the live loop on the wall clock inside a bubble.
func TestRunDefused(t *testing.T) {
	t.Parallel()

	cfg := shortConfig()
	cfg.Simulation.Events = append(cfg.Simulation.Events, config.EventConfig{
		At:      2 * time.Second,
		Digital: map[string]bool{"wire": false},
	})

	path := writeConfig(t, cfg)

	synctest.Test(t, func(t *testing.T) {
		var (
			output  bytes.Buffer
			display bytes.Buffer
		)

		err := Run(context.Background(), &Options{
			ConfigPath: path,
			Display:    &display,
			Output:     &output,
		})
		require.NoError(t, err)

		fields := decode(t, output.Bytes())
		require.Equal(t, "defused", fields["outcome"])
		require.InDelta(t, 2010, fields["finished_at_ms"], 0)
		require.Contains(t, display.String(), "DEFUSED")
	})
}

// TestRunAborted verifies cancellation stops the loop and still reports.
func TestRunAborted(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, shortConfig())

	synctest.Test(t, func(t *testing.T) {
		var output bytes.Buffer

		ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
		defer cancel()

		err := Run(ctx, &Options{
			ConfigPath: path,
			Output:     &output,
		})
		require.NoError(t, err)

		fields := decode(t, output.Bytes())
		require.Equal(t, "pending", fields["outcome"])
		require.Equal(t, false, fields["actuated"])
		require.InDelta(t, 1, fields["elapsed_seconds"], 0)
	})
}

// TestEngineConfigErrors verifies misconfigured puzzles and alarms are rejected.
func TestEngineConfigErrors(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Alarm.Decay = "exponential"

	_, err := engineConfig(cfg)
	require.ErrorIs(t, err, countdown.ErrUnknownDecay)

	cfg = config.Default()
	cfg.Puzzles[1].Sequence = nil

	_, err = engineConfig(cfg)
	require.ErrorIs(t, err, puzzle.ErrEmptySequence)

	cfg = config.Default()
	cfg.Puzzles[2].Threshold = 0

	_, err = engineConfig(cfg)
	require.ErrorIs(t, err, puzzle.ErrNonPositiveThreshold)

	_, err = buildPuzzle(config.PuzzleConfig{Name: "lever", Kind: "lever"})
	require.ErrorIs(t, err, ErrUnknownKind)
}

// TestBuildScript verifies simulation events drive the simulated board.
func TestBuildScript(t *testing.T) {
	t.Parallel()

	script := buildScript([]config.EventConfig{
		{At: time.Second, Analog: map[string]int{"dial": 512}},
		{At: 0, Digital: map[string]bool{"wire": true}},
	})

	board := sim.NewBoard()

	require.Equal(t, 1, script.Apply(board, 0))
	require.True(t, board.ReadDigital("wire"))
	require.Zero(t, board.ReadAnalog("dial"))

	require.Equal(t, 1, script.Apply(board, 1000))
	require.Equal(t, 512, board.ReadAnalog("dial"))
	require.True(t, script.Done())
}

// TestPeriphConfig verifies the pin map conversion.
func TestPeriphConfig(t *testing.T) {
	t.Parallel()

	pc := periphConfig(config.Default().Periph)

	require.Equal(t, "GPIO17", pc.Digital[hardware.Channel("button.red")])
	require.Equal(t, 0, pc.Analog[hardware.Channel("dial")])
	require.Equal(t, "GPIO6", pc.Indicators[hardware.Channel("led.dial")].G)
	require.Equal(t, "GPIO12", pc.Alarm)
	require.Equal(t, "GPIO18", pc.Servo)
}

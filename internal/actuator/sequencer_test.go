package actuator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/defuse-box/internal/domain/bomb"
	"github.com/oshokin/defuse-box/internal/hardware"
	"github.com/oshokin/defuse-box/internal/hardware/sim"
)

// testConfig returns a sequencer configuration modeled on the prop defaults.
func testConfig() Config {
	return Config{
		AckBeep:    200 * time.Millisecond,
		AlarmHold:  3 * time.Second,
		ServoStart: 0,
		ServoEnd:   90,
		ServoRate:  90,
		Indicators: []hardware.Channel{"led.dial", "led.wire"},
	}
}

// TestNewSequencer_Validation verifies that a non-positive servo rate is rejected.
func TestNewSequencer_Validation(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ServoRate = 0

	_, err := NewSequencer(cfg, sim.NewBoard(), sim.NewClock(0))
	require.ErrorIs(t, err, ErrNonPositiveServoRate)
}

// TestSequencer_Detonate checks alarm hold, servo sweep and final text.
func TestSequencer_Detonate(t *testing.T) {
	t.Parallel()

	board, clock := sim.NewBoard(), sim.NewClock(0)

	s, err := NewSequencer(testConfig(), board, clock)
	require.NoError(t, err)

	require.NoError(t, s.Fire(context.Background(), bomb.Detonated))
	require.True(t, s.Fired())

	require.False(t, board.Alarm())
	require.Equal(t, 1, board.AlarmPulses())
	require.Equal(t, DetonatedText, board.Screen())

	color, ok := board.Indicator("led.wire")
	require.True(t, ok)
	require.Equal(t, hardware.Red, color)

	// 90 degrees at 90 deg/s in 20 ms frames: 50 frames after the start position.
	angles := board.ServoAngles()
	require.Len(t, angles, 51)
	require.Equal(t, 0, angles[0])
	require.Equal(t, 90, angles[len(angles)-1])
	require.IsNonDecreasing(t, angles)
	require.Equal(t, 3*time.Second+time.Second, clock.Slept())
}

// TestSequencer_SweepDownwards verifies sweeps toward a smaller angle end exactly on target.
func TestSequencer_SweepDownwards(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ServoStart = 180
	cfg.ServoEnd = 45
	cfg.ServoRate = 200

	board := sim.NewBoard()

	s, err := NewSequencer(cfg, board, sim.NewClock(0))
	require.NoError(t, err)
	require.NoError(t, s.Fire(context.Background(), bomb.Detonated))

	angles := board.ServoAngles()
	require.Equal(t, 180, angles[0])
	require.Equal(t, 45, angles[len(angles)-1])
	require.IsNonIncreasing(t, angles)
}

// TestSequencer_Defuse checks the short acknowledgment without servo movement.
func TestSequencer_Defuse(t *testing.T) {
	t.Parallel()

	board, clock := sim.NewBoard(), sim.NewClock(0)

	s, err := NewSequencer(testConfig(), board, clock)
	require.NoError(t, err)
	require.NoError(t, s.Fire(context.Background(), bomb.Defused))

	require.Equal(t, DefusedText, board.Screen())
	require.Empty(t, board.ServoAngles())
	require.Equal(t, 1, board.AlarmPulses())
	require.Equal(t, 200*time.Millisecond, clock.Slept())

	color, ok := board.Indicator("led.dial")
	require.True(t, ok)
	require.Equal(t, hardware.Green, color)
}

// TestSequencer_FiresOnce ensures concurrent and repeated calls run a single sequence.
func TestSequencer_FiresOnce(t *testing.T) {
	t.Parallel()

	board := sim.NewBoard()

	s, err := NewSequencer(testConfig(), board, sim.NewClock(0))
	require.NoError(t, err)

	require.ErrorIs(t, s.Fire(context.Background(), bomb.Pending), ErrNotTerminal)
	require.False(t, s.Fired())

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		errs   []error
		starts = 8
	)

	for range starts {
		wg.Go(func() {
			err := s.Fire(context.Background(), bomb.Defused)

			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		})
	}

	wg.Wait()

	succeeded := 0

	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}

		require.ErrorIs(t, err, ErrAlreadyFired)
	}

	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, board.AlarmPulses())
}

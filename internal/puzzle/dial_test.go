package puzzle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/defuse-box/internal/hardware/sim"
)

// TestWindow_BandEdges checks inclusive band edges and that the flag does not latch.
func TestWindow_BandEdges(t *testing.T) {
	t.Parallel()

	_, err := NewWindow(500, -1)
	require.ErrorIs(t, err, ErrNegativeTolerance)

	w, err := NewWindow(500, 5)
	require.NoError(t, err)

	require.True(t, w.Sample(505))
	require.True(t, w.Sample(495))
	require.True(t, w.Sample(500))

	require.False(t, w.Sample(506))
	require.False(t, w.Solved())
	require.False(t, w.Sample(494))

	// Drifting out after a solve reverts the flag on the next sample.
	require.True(t, w.Sample(501))
	require.False(t, w.Sample(520))
	require.False(t, w.Solved())
}

// TestDial_ClampsReadings verifies that analog readings are clamped before evaluation.
func TestDial_ClampsReadings(t *testing.T) {
	t.Parallel()

	_, err := NewDial(DialConfig{Name: "dial"})
	require.ErrorIs(t, err, ErrMissingChannel)

	d, err := NewDial(DialConfig{
		Name:      "dial",
		Channel:   "pot",
		Target:    1023,
		Tolerance: 3,
	})
	require.NoError(t, err)
	require.Equal(t, KindRange, d.Kind())

	b := sim.NewBoard()

	b.SetAnalog("pot", 4000)
	d.Poll(b)
	require.Equal(t, 1023, d.Value())
	require.True(t, d.Solved())

	b.SetAnalog("pot", -20)
	d.Poll(b)
	require.Equal(t, 0, d.Value())
	require.False(t, d.Solved())
}

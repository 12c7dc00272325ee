package bomb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestOutcome verifies names and terminal flags of every outcome.
func TestOutcome(t *testing.T) {
	t.Parallel()

	require.Equal(t, "pending", Pending.String())
	require.Equal(t, "defused", Defused.String())
	require.Equal(t, "detonated", Detonated.String())
	require.Equal(t, "unknown", Outcome(42).String())

	require.False(t, Pending.IsTerminal())
	require.True(t, Defused.IsTerminal())
	require.True(t, Detonated.IsTerminal())
}

// TestSnapshotClone verifies that Clone deep-copies puzzle statuses and handles nil safely.
func TestSnapshotClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Snapshot)(nil).Clone())

	s := &Snapshot{
		Outcome:          Pending,
		ElapsedSeconds:   3,
		RemainingSeconds: 7,
		DeadlineSeconds:  10,
		FinishedAtMs:     -1,
		Puzzles: []PuzzleStatus{
			{Name: "dial", Kind: "range", Solved: true, SolvedAtMs: 3000},
			{Name: "wire", Kind: "duration", SolvedAtMs: -1},
		},
	}

	c := s.Clone()
	require.Equal(t, s, c)
	require.NotSame(t, s, c)

	c.Puzzles[0].Solved = false
	require.True(t, s.Puzzles[0].Solved)
	require.Equal(t, 1, s.SolvedCount())
	require.Equal(t, 0, c.SolvedCount())
}

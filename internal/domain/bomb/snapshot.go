package bomb

// PuzzleStatus is a read-only view of one sub-puzzle.
type PuzzleStatus struct {
	// Name is the configured puzzle name.
	Name string
	// Kind is the puzzle kind (range, sequence, duration).
	Kind string
	// Solved is the solved flag as of the last tick.
	Solved bool
	// SolvedAtMs is the tick at which the puzzle last became solved, or -1.
	SolvedAtMs int64
}

// Snapshot represents the session status after a tick.
type Snapshot struct {
	// Outcome is the current session outcome.
	Outcome Outcome
	// ElapsedSeconds is the number of completed countdown seconds.
	ElapsedSeconds int
	// RemainingSeconds is the number of seconds left before detonation.
	RemainingSeconds int
	// DeadlineSeconds is the configured countdown length.
	DeadlineSeconds int
	// FinishedAtMs is the tick of the terminal transition, or -1 while pending.
	FinishedAtMs int64
	// Puzzles holds one status per configured puzzle, in configuration order.
	Puzzles []PuzzleStatus
}

// Clone returns a copy of the snapshot to avoid leaking internal references.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	cloned := *s
	cloned.Puzzles = append([]PuzzleStatus(nil), s.Puzzles...)

	return &cloned
}

// SolvedCount returns the number of puzzles currently solved.
func (s *Snapshot) SolvedCount() int {
	count := 0

	for _, p := range s.Puzzles {
		if p.Solved {
			count++
		}
	}

	return count
}

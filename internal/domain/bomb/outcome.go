package bomb

// Outcome is the session result. It moves from Pending to exactly one
// terminal value and never changes afterwards.
type Outcome int

const (
	// Pending means the countdown is still running.
	Pending Outcome = iota
	// Defused means every puzzle was solved before the deadline.
	Defused
	// Detonated means the countdown expired first.
	Detonated
)

// String returns the lowercase name of the outcome.
func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Defused:
		return "defused"
	case Detonated:
		return "detonated"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further ticks are processed in this outcome.
func (o Outcome) IsTerminal() bool {
	return o == Defused || o == Detonated
}

// Token identifies one symbol of a button sequence.
type Token string

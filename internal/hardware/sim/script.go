package sim

import (
	"sort"
	"time"

	"github.com/oshokin/defuse-box/internal/hardware"
)

// Event changes input levels once the session reaches At.
type Event struct {
	// At is the offset from the session start.
	At time.Duration
	// Analog holds analog levels to set.
	Analog map[hardware.Channel]int
	// Digital holds digital levels to set.
	Digital map[hardware.Channel]bool
}

// Script replays events in time order. Events sharing the same offset are
// applied in the order they were given.
type Script struct {
	// events are sorted by At.
	events []Event
	// next is the index of the first event not yet applied.
	next int
}

// NewScript creates a script from events in any order.
func NewScript(events []Event) *Script {
	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].At < sorted[j].At
	})

	return &Script{
		events: sorted,
	}
}

// Apply sets every input whose event is due at elapsedMs and returns how many
// events fired.
func (s *Script) Apply(board *Board, elapsedMs int64) int {
	applied := 0

	for s.next < len(s.events) && s.events[s.next].At.Milliseconds() <= elapsedMs {
		event := s.events[s.next]

		for ch, v := range event.Analog {
			board.SetAnalog(ch, v)
		}

		for ch, v := range event.Digital {
			board.SetDigital(ch, v)
		}

		s.next++
		applied++
	}

	return applied
}

// Done reports whether every event was applied.
func (s *Script) Done() bool {
	return s.next >= len(s.events)
}

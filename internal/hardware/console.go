package hardware

import (
	"io"
	"sync"
)

// ConsoleDisplay renders the display on a terminal line. DisplayHome returns
// the carriage so the next text overwrites the previous one, like an LCD.
type ConsoleDisplay struct {
	// w receives the rendered text.
	w io.Writer
	// mu serializes writes.
	mu sync.Mutex
}

// NewConsoleDisplay creates a display writing to w. A nil w discards text.
func NewConsoleDisplay(w io.Writer) *ConsoleDisplay {
	if w == nil {
		w = io.Discard
	}

	return &ConsoleDisplay{
		w: w,
	}
}

// Display implements Display.
func (d *ConsoleDisplay) Display(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, _ = io.WriteString(d.w, text)
}

// DisplayHome implements Display.
func (d *ConsoleDisplay) DisplayHome() {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, _ = io.WriteString(d.w, "\r")
}

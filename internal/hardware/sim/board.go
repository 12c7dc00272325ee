package sim

import (
	"strings"
	"sync"

	"github.com/oshokin/defuse-box/internal/hardware"
)

// Board is an in-memory hardware.Board.
type Board struct {
	// analog holds the current analog level per channel.
	analog map[hardware.Channel]int
	// digital holds the current digital level per channel.
	digital map[hardware.Channel]bool
	// indicators holds the last color written per indicator channel.
	indicators map[hardware.Channel]hardware.Color
	// screen is the text rendered since the last DisplayHome.
	screen strings.Builder
	// alarm is the current alarm state.
	alarm bool
	// alarmEdges counts off-to-on alarm transitions.
	alarmEdges int
	// servo holds every angle written, in order.
	servo []int
	// mu protects the fields above.
	mu sync.Mutex
}

// NewBoard creates a board with every input low.
func NewBoard() *Board {
	return &Board{
		analog:     make(map[hardware.Channel]int),
		digital:    make(map[hardware.Channel]bool),
		indicators: make(map[hardware.Channel]hardware.Color),
	}
}

// SetAnalog sets the level returned by ReadAnalog.
func (b *Board) SetAnalog(ch hardware.Channel, value int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.analog[ch] = value
}

// SetDigital sets the level returned by ReadDigital.
func (b *Board) SetDigital(ch hardware.Channel, level bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.digital[ch] = level
}

// ReadAnalog implements hardware.Inputs.
func (b *Board) ReadAnalog(ch hardware.Channel) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.analog[ch]
}

// ReadDigital implements hardware.Inputs.
func (b *Board) ReadDigital(ch hardware.Channel) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.digital[ch]
}

// Display implements hardware.Display.
func (b *Board) Display(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.screen.WriteString(text)
}

// DisplayHome implements hardware.Display. The simulated screen is cleared.
func (b *Board) DisplayHome() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.screen.Reset()
}

// SetAlarm implements hardware.Outputs.
func (b *Board) SetAlarm(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if on && !b.alarm {
		b.alarmEdges++
	}

	b.alarm = on
}

// SetServoAngle implements hardware.Outputs.
func (b *Board) SetServoAngle(angle int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.servo = append(b.servo, angle)
}

// SetIndicatorColor implements hardware.Outputs.
func (b *Board) SetIndicatorColor(ch hardware.Channel, c hardware.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.indicators[ch] = c
}

// Screen returns the text written since the last DisplayHome.
func (b *Board) Screen() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.screen.String()
}

// Alarm returns the current alarm state.
func (b *Board) Alarm() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.alarm
}

// AlarmPulses returns how many times the alarm was switched on.
func (b *Board) AlarmPulses() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.alarmEdges
}

// ServoAngles returns a copy of every servo angle written.
func (b *Board) ServoAngles() []int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]int(nil), b.servo...)
}

// Indicator returns the last color of the channel and whether it was ever set.
func (b *Board) Indicator(ch hardware.Channel) (hardware.Color, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.indicators[ch]

	return c, ok
}

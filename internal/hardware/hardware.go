package hardware

import "time"

// Channel names one logical input or output, e.g. "dial" or "led.wire".
type Channel string

// Color is an RGB value for an indicator LED.
type Color struct {
	R uint8
	G uint8
	B uint8
}

var (
	// Red marks an unsolved puzzle or a detonation.
	Red = Color{R: 255}
	// Green marks a solved puzzle or a defusal.
	Green = Color{G: 255}
	// Off turns the indicator off.
	Off = Color{}
)

// Inputs samples the physical controls.
type Inputs interface {
	// ReadAnalog returns a raw analog sample of the channel.
	ReadAnalog(ch Channel) int
	// ReadDigital returns the current level of the channel.
	ReadDigital(ch Channel) bool
}

// Display renders textual status.
type Display interface {
	// Display writes text at the current cursor position.
	Display(text string)
	// DisplayHome moves the cursor to the top-left corner.
	DisplayHome()
}

// Outputs drives the actuators.
type Outputs interface {
	SetAlarm(on bool)
	SetServoAngle(angle int)
	SetIndicatorColor(ch Channel, c Color)
}

// Board is the complete set of I/O capabilities of a prop.
type Board interface {
	Inputs
	Display
	Outputs
}

// Clock is a monotonic millisecond clock. Sleep blocks the caller and is
// used only by the terminal actuation.
type Clock interface {
	Now() int64
	Sleep(d time.Duration)
}

// SystemClock measures milliseconds since it was created.
type SystemClock struct {
	// start is the reference point of Now.
	start time.Time
}

// NewSystemClock returns a clock whose Now starts at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{
		start: time.Now(),
	}
}

// Now returns the milliseconds elapsed since the clock was created.
func (c *SystemClock) Now() int64 {
	return time.Since(c.start).Milliseconds()
}

// Sleep pauses the current goroutine for d.
func (c *SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/defuse-box/internal/hardware"
)

// TestBoard_RecordsOutputs verifies that outputs are recorded and inputs are returned as set.
func TestBoard_RecordsOutputs(t *testing.T) {
	t.Parallel()

	b := NewBoard()
	require.Equal(t, 0, b.ReadAnalog("dial"))
	require.False(t, b.ReadDigital("wire"))

	b.SetAnalog("dial", 512)
	b.SetDigital("wire", true)
	require.Equal(t, 512, b.ReadAnalog("dial"))
	require.True(t, b.ReadDigital("wire"))

	b.Display("10")
	require.Equal(t, "10", b.Screen())

	b.DisplayHome()
	b.Display("09")
	require.Equal(t, "09", b.Screen())

	b.SetAlarm(true)
	b.SetAlarm(true)
	b.SetAlarm(false)
	b.SetAlarm(true)
	require.True(t, b.Alarm())
	require.Equal(t, 2, b.AlarmPulses())

	b.SetServoAngle(0)
	b.SetServoAngle(90)
	require.Equal(t, []int{0, 90}, b.ServoAngles())

	_, ok := b.Indicator("led.dial")
	require.False(t, ok)

	b.SetIndicatorColor("led.dial", hardware.Green)
	c, ok := b.Indicator("led.dial")
	require.True(t, ok)
	require.Equal(t, hardware.Green, c)
}

// TestClock verifies that Sleep and Advance move virtual time.
func TestClock(t *testing.T) {
	t.Parallel()

	c := NewClock(100)
	require.Equal(t, int64(100), c.Now())

	c.Sleep(3 * time.Second)
	require.Equal(t, int64(3100), c.Now())
	require.Equal(t, 3*time.Second, c.Slept())

	require.Equal(t, int64(3110), c.Advance(10*time.Millisecond))
}

// TestScript_Apply verifies that events fire in time order once they are due.
func TestScript_Apply(t *testing.T) {
	t.Parallel()

	b := NewBoard()
	s := NewScript([]Event{
		{At: 2 * time.Second, Digital: map[hardware.Channel]bool{"wire": true}},
		{At: time.Second, Analog: map[hardware.Channel]int{"dial": 300}},
		{At: 2 * time.Second, Analog: map[hardware.Channel]int{"dial": 500}},
	})

	require.Equal(t, 0, s.Apply(b, 999))
	require.Equal(t, 1, s.Apply(b, 1000))
	require.Equal(t, 300, b.ReadAnalog("dial"))
	require.False(t, s.Done())

	require.Equal(t, 2, s.Apply(b, 5000))
	require.Equal(t, 500, b.ReadAnalog("dial"))
	require.True(t, b.ReadDigital("wire"))
	require.True(t, s.Done())
	require.Equal(t, 0, s.Apply(b, 6000))
}

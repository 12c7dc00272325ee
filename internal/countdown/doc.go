// Package countdown keeps the bomb's time: a second accumulator that drives
// the detonation deadline and an alarm cadence whose pulses speed up as the
// deadline approaches.
package countdown

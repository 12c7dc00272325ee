// Package hardware defines the capabilities the bomb engine consumes.
//
// The engine never touches pins. It reads named channels through Inputs,
// writes status through Display and Outputs, and tells time through Clock.
// Backends live in subpackages: sim (in-memory board and virtual clock) and
// periph (Raspberry Pi GPIO, PWM and SPI ADC).
package hardware

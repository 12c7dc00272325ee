// Package periph drives a prop wired to a Raspberry Pi through periph.io:
// GPIO inputs for buttons and wires, an MCP3008 ADC on SPI for dials, GPIO
// outputs for the buzzer and RGB indicators, and a 50 Hz PWM servo.
package periph

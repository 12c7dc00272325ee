// Package actuator runs the terminal sequence of a session: a short
// acknowledgment on defusal, or the alarm hold followed by the servo sweep on
// detonation. A Sequencer fires at most once.
package actuator

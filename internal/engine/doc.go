// Package engine is the bomb state machine. It owns the countdown, every
// configured puzzle and the terminal sequencer, and advances them once per
// Tick in a fixed order: countdown, puzzles, outcome, outputs.
//
// Expiry is checked before the puzzles, so a deadline reached in the same
// tick as the last solve detonates. Once the outcome is terminal the engine
// is frozen and further ticks are ignored.
package engine

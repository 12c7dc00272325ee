// Package session hosts one defuse session: it loads the configuration,
// opens the hardware backend, drives the engine from a polling loop and
// writes the session report when the bomb is defused, detonates or the
// session is aborted.
//
// Run ticks on the wall clock. Simulate replays the configured input script
// on a virtual clock and finishes as fast as the machine allows.
package session

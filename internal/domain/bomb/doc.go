// Package bomb contains core domain types for the defuse-the-bomb session.
//
// It defines the session Outcome, the Token a button contributes to a
// sequence, and Snapshot (the session status at a point in time) with Clone
// helpers to avoid leaking internal references.
package bomb

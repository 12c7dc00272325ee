// Package puzzle implements the sub-puzzles a player must solve to defuse the
// bomb, together with the edge detection and debouncing they rely on.
//
// Every puzzle kind is split in two layers: a pure state machine fed with
// already-sampled values (Window, Matcher, Hold) and a Puzzle that binds it
// to named hardware channels (Dial, Sequence, Wire). Range puzzles track the
// current sample only, sequence and duration puzzles latch once solved.
package puzzle

// Package sim provides an in-memory prop: a Board that records every output,
// a virtual Clock whose Sleep advances time instantly, and a Script that
// replays timed input changes. It backs the simulate command and the tests.
package sim

package watch

import "errors"

// Sentinel errors for the polling engine.
//
// None of these are fatal: every failure mode below is recovered locally by
// skipping a cycle or a node and logging. The engine only ever terminates on
// an explicit stop request.
var (
	// ErrEmptySnapshot indicates a fetch-and-parse cycle produced zero videos.
	// The cycle is skipped; the cursor is left untouched.
	ErrEmptySnapshot = errors.New("empty snapshot")
)

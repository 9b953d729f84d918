// Package nfa builds and simulates Thompson NFAs for incremental validation.
//
// A pattern's syntax tree is compiled into an automaton whose states are
// dense integer IDs and whose edges are a flat list of transitions, each
// either epsilon or labelled with a code point range. The simulator keeps the
// set of active states while input is consumed one code point at a time and
// answers two questions: does the whole input match, and can the input still
// be completed into a match.
package nfa

import (
	"errors"
	"fmt"
)

// Common NFA errors
var (
	// ErrInvalidState indicates an invalid NFA state ID was encountered
	ErrInvalidState = errors.New("invalid NFA state")

	// ErrTooComplex indicates the pattern is too complex to compile
	ErrTooComplex = errors.New("pattern too complex")

	// ErrNilNode indicates a nil syntax tree was passed to the compiler
	ErrNilNode = errors.New("nil pattern node")
)

// CompileError wraps compilation errors with additional context
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("NFA compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("NFA compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError represents an error during NFA construction via the Builder API
type BuildError struct {
	Message string
	StateID StateID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidState) match out-of-range states.
func (e *BuildError) Unwrap() error {
	if e.StateID != InvalidState {
		return ErrInvalidState
	}
	return nil
}

package nfa

import (
	"fmt"
	"slices"
)

// StateID identifies an NFA state. IDs are dense: a built NFA uses exactly
// the IDs [0, States()).
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID
const InvalidState StateID = 0xFFFFFFFF

// Transition is one edge of the automaton. A symbol edge consumes one code
// point in [Lo, Hi] (Lo == Hi for a single character); an epsilon edge
// consumes nothing.
type Transition struct {
	From, To StateID
	Lo, Hi   rune
	Epsilon  bool
}

// Accepts reports whether the edge consumes r.
func (t Transition) Accepts(r rune) bool {
	return !t.Epsilon && t.Lo <= r && r <= t.Hi
}

// String returns a human-readable representation of the transition
func (t Transition) String() string {
	switch {
	case t.Epsilon:
		return fmt.Sprintf("%d -ε-> %d", t.From, t.To)
	case t.Lo == t.Hi:
		return fmt.Sprintf("%d -%q-> %d", t.From, t.Lo, t.To)
	default:
		return fmt.Sprintf("%d -[%q-%q]-> %d", t.From, t.Lo, t.Hi, t.To)
	}
}

// NFA is a compiled Thompson automaton. It is immutable once built and safe
// for concurrent use.
type NFA struct {
	start       StateID
	accept      []bool // indexed by StateID
	acceptList  []StateID
	transitions []Transition

	// Adjacency built once by the Builder.
	epsilon [][]StateID
	symbol  [][]Transition

	source string
}

// Start returns the start state.
func (n *NFA) Start() StateID {
	return n.start
}

// States returns the total number of states in the NFA
func (n *NFA) States() int {
	return len(n.accept)
}

// IsAccept reports whether id is an accepting state.
func (n *NFA) IsAccept(id StateID) bool {
	return int(id) < len(n.accept) && n.accept[id]
}

// AcceptStates returns the accepting states in ascending order.
func (n *NFA) AcceptStates() []StateID {
	return slices.Clone(n.acceptList)
}

// Transitions returns a copy of every edge in insertion order.
func (n *NFA) Transitions() []Transition {
	return slices.Clone(n.transitions)
}

// Source returns the pattern the NFA was compiled from, if recorded.
func (n *NFA) Source() string {
	return n.source
}

// String returns a human-readable representation of the NFA
func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, transitions: %d, start: %d, accept: %v}",
		n.States(), len(n.transitions), n.start, n.acceptList)
}

package nfa

import (
	"fmt"
	"slices"

	"github.com/coregx/incregex/internal/conv"
)

// Builder constructs NFAs incrementally using a low-level API.
// States are allocated monotonically and never reused; edges are appended to
// a flat transition list. This is what the Compiler drives.
type Builder struct {
	stateCount  int
	start       StateID
	accept      []StateID
	transitions []Transition
}

// NewBuilder creates a new NFA builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new NFA builder with specified initial
// transition capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		start:       InvalidState,
		transitions: make([]Transition, 0, capacity),
	}
}

// AddState allocates a fresh state and returns its ID.
// Panics if the ID space is exhausted, which the Compiler's state limit
// prevents long before.
func (b *Builder) AddState() StateID {
	if uint64(b.stateCount) >= uint64(InvalidState) {
		panic("nfa: state ID space exhausted")
	}
	id := StateID(conv.IntToUint32(b.stateCount))
	b.stateCount++
	return id
}

// AddEpsilon adds an edge from -> to that consumes no input.
func (b *Builder) AddEpsilon(from, to StateID) {
	b.transitions = append(b.transitions, Transition{From: from, To: to, Epsilon: true})
}

// AddSymbol adds an edge from -> to consuming exactly r.
func (b *Builder) AddSymbol(from, to StateID, r rune) {
	b.AddRange(from, to, r, r)
}

// AddRange adds an edge from -> to consuming any code point in [lo, hi].
func (b *Builder) AddRange(from, to StateID, lo, hi rune) {
	b.transitions = append(b.transitions, Transition{From: from, To: to, Lo: lo, Hi: hi})
}

// SetStart sets the starting state for the NFA
func (b *Builder) SetStart(start StateID) {
	b.start = start
}

// AddAccept marks id as an accepting state.
func (b *Builder) AddAccept(id StateID) {
	if !slices.Contains(b.accept, id) {
		b.accept = append(b.accept, id)
	}
}

// States returns the current number of states
func (b *Builder) States() int {
	return b.stateCount
}

// Validate checks that the NFA is well-formed:
// - Start state is set and in range
// - Every accepting state is in range
// - Every transition joins two allocated states
// - No symbol edge has an empty range
func (b *Builder) Validate() error {
	if b.start == InvalidState {
		return &BuildError{Message: "start state not set", StateID: InvalidState}
	}
	if !b.valid(b.start) {
		return &BuildError{Message: "start state out of bounds", StateID: b.start}
	}
	for _, id := range b.accept {
		if !b.valid(id) {
			return &BuildError{Message: "accept state out of bounds", StateID: id}
		}
	}
	for i, t := range b.transitions {
		if !b.valid(t.From) {
			return &BuildError{
				Message: fmt.Sprintf("transition %d has invalid source", i),
				StateID: t.From,
			}
		}
		if !b.valid(t.To) {
			return &BuildError{
				Message: fmt.Sprintf("transition %d has invalid target", i),
				StateID: t.To,
			}
		}
		if !t.Epsilon && t.Lo > t.Hi {
			return &BuildError{
				Message: fmt.Sprintf("transition %d has empty range [%q-%q]", i, t.Lo, t.Hi),
				StateID: InvalidState,
			}
		}
	}
	return nil
}

func (b *Builder) valid(id StateID) bool {
	return id != InvalidState && uint64(id) < uint64(b.stateCount)
}

// Build validates the builder and returns the immutable NFA.
// The builder must not be used afterwards.
func (b *Builder) Build(opts ...BuildOption) (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	n := &NFA{
		start:       b.start,
		accept:      make([]bool, b.stateCount),
		acceptList:  slices.Clone(b.accept),
		transitions: b.transitions,
		epsilon:     make([][]StateID, b.stateCount),
		symbol:      make([][]Transition, b.stateCount),
	}
	slices.Sort(n.acceptList)
	for _, id := range b.accept {
		n.accept[id] = true
	}
	for _, t := range b.transitions {
		if t.Epsilon {
			n.epsilon[t.From] = append(n.epsilon[t.From], t.To)
		} else {
			n.symbol[t.From] = append(n.symbol[t.From], t)
		}
	}

	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// BuildOption is a functional option for configuring the built NFA
type BuildOption func(*NFA)

// WithSource records the pattern source on the NFA for diagnostics.
func WithSource(source string) BuildOption {
	return func(n *NFA) {
		n.source = source
	}
}

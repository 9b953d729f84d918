package nfa

import (
	"slices"
	"unicode/utf8"

	"github.com/coregx/incregex/internal/conv"
	"github.com/coregx/incregex/internal/sparse"
)

// Result reports how far a simulation got through its input.
type Result struct {
	// Alive is true if at least one state survived the whole input.
	Alive bool

	// Accepted is true if an accepting state is active after the whole input.
	Accepted bool

	// Consumed is the byte length of the longest prefix of the input after
	// which some state was still active. It equals len(input) when Alive.
	Consumed int
}

// Simulator runs an NFA over input one code point at a time, tracking every
// active state at once.
//
// A Simulator reuses its state sets between runs and is NOT safe for
// concurrent use; give each goroutine its own or pool them.
type Simulator struct {
	nfa   *NFA
	cur   *sparse.SparseSet
	next  *sparse.SparseSet
	stack []StateID
}

// NewSimulator creates a simulator for n.
func NewSimulator(n *NFA) *Simulator {
	capacity := conv.IntToUint32(n.States())
	return &Simulator{
		nfa:   n,
		cur:   sparse.NewSparseSet(capacity),
		next:  sparse.NewSparseSet(capacity),
		stack: make([]StateID, 0, 16),
	}
}

// NFA returns the automaton being simulated.
func (s *Simulator) NFA() *NFA {
	return s.nfa
}

// Run feeds input through the automaton starting from the closure of the
// start state. It stops at the first code point that leaves no active state.
// Invalid UTF-8 bytes are consumed one at a time as U+FFFD.
func (s *Simulator) Run(input string) Result {
	s.cur.Clear()
	s.addClosure(s.cur, s.nfa.start)

	pos := 0
	for pos < len(input) {
		r, size := utf8.DecodeRuneInString(input[pos:])
		s.step(r)
		if s.cur.IsEmpty() {
			return Result{Consumed: pos}
		}
		pos += size
	}
	return Result{
		Alive:    true,
		Accepted: s.accepting(),
		Consumed: pos,
	}
}

// CanPartiallyMatch reports whether input leaves at least one state active.
// An accepting state is not required.
func (s *Simulator) CanPartiallyMatch(input string) bool {
	return s.Run(input).Alive
}

// Matches reports whether input drives the automaton into an accepting state.
func (s *Simulator) Matches(input string) bool {
	return s.Run(input).Accepted
}

// step replaces the active set with the closure of its successors on r.
func (s *Simulator) step(r rune) {
	s.next.Clear()
	for _, id := range s.cur.Values() {
		for _, t := range s.nfa.symbol[id] {
			if t.Accepts(r) {
				s.addClosure(s.next, t.To)
			}
		}
	}
	s.cur, s.next = s.next, s.cur
}

func (s *Simulator) accepting() bool {
	for _, id := range s.cur.Values() {
		if s.nfa.accept[id] {
			return true
		}
	}
	return false
}

// addClosure inserts id and everything epsilon-reachable from it into set.
// Membership in set doubles as the visited mark, so epsilon cycles terminate.
func (s *Simulator) addClosure(set *sparse.SparseSet, id StateID) {
	if !set.Insert(uint32(id)) {
		return
	}
	s.stack = append(s.stack[:0], id)
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		for _, to := range s.nfa.epsilon[top] {
			if set.Insert(uint32(to)) {
				s.stack = append(s.stack, to)
			}
		}
	}
}

// EpsilonClosure returns every state reachable from states using only
// epsilon edges, including the states themselves, in ascending order.
// Out-of-range IDs are ignored.
func (n *NFA) EpsilonClosure(states []StateID) []StateID {
	s := NewSimulator(n)
	set := s.cur
	for _, id := range states {
		if int(id) < n.States() {
			s.addClosure(set, id)
		}
	}
	return sortedStates(set)
}

// Move returns every state reached from states by one edge consuming r, in
// ascending order. It does not follow epsilon edges afterwards.
func (n *NFA) Move(states []StateID, r rune) []StateID {
	set := sparse.NewSparseSet(conv.IntToUint32(n.States()))
	for _, id := range states {
		if int(id) >= n.States() {
			continue
		}
		for _, t := range n.symbol[id] {
			if t.Accepts(r) {
				set.Insert(uint32(t.To))
			}
		}
	}
	return sortedStates(set)
}

// CanPartiallyMatch reports whether some continuation of input could still
// reach the end of the automaton. The empty string always can.
func (n *NFA) CanPartiallyMatch(input string) bool {
	return NewSimulator(n).CanPartiallyMatch(input)
}

// Matches reports whether the automaton accepts all of input.
func (n *NFA) Matches(input string) bool {
	return NewSimulator(n).Matches(input)
}

func sortedStates(set *sparse.SparseSet) []StateID {
	out := make([]StateID, set.Len())
	for i, v := range set.Values() {
		out[i] = StateID(v)
	}
	slices.Sort(out)
	return out
}

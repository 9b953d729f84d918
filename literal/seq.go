// Package literal extracts the literal strings a pattern requires and turns
// them into a prefilter for full-match checks.
//
// Form-field patterns often pin down fixed text: the "@" of an email, the
// "-" separators of a phone number, the fixed alternatives of /^(?:yes|no)$/.
// Any input that contains none of a pattern's required literals cannot match
// it, so an Aho-Corasick scan over those literals rejects such input before
// the automaton runs.
//
// Key concepts:
//   - A Literal is a concrete byte sequence
//   - A Seq is a set of alternatives: every match contains at least one
//   - A complete Seq is the exact set of strings the pattern matches
package literal

import (
	"bytes"
	"slices"
)

// Literal represents a literal byte sequence extracted from a pattern.
//
// Example:
//   - Pattern /hello/ → Literal{[]byte("hello"), true}
//   - Pattern /[^@]+@[^@]+/ → Literal{[]byte("@"), false}
type Literal struct {
	// Bytes contains the UTF-8 encoded literal.
	Bytes []byte

	// Complete indicates the literal is an entire match, not just a
	// piece every match contains.
	Complete bool
}

// NewLiteral creates a new Literal from the given byte sequence and completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{
		Bytes:    b,
		Complete: complete,
	}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a string representation of the literal for debugging purposes.
// Format: "literal{bytes, complete=true/false}"
//
// Example:
//
//	lit := literal.NewLiteral([]byte("test"), true)
//	fmt.Println(lit.String()) // Output: literal{test, complete=true}
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a set of alternative literals.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("bar"), true),
//	)
//	fmt.Printf("Sequence has %d literals\n", seq.Len()) // Output: Sequence has 2 literals
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{
		literals: lits,
	}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at the specified index.
// Panics if index is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// Literals returns the literals in the sequence. The slice must not be
// modified.
func (s *Seq) Literals() []Literal {
	if s == nil {
		return nil
	}
	return s.literals
}

// IsEmpty returns true if the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// IsComplete reports whether every literal is Complete, meaning the
// sequence lists every string the pattern matches.
func (s *Seq) IsComplete() bool {
	if s.IsEmpty() {
		return false
	}
	for _, lit := range s.literals {
		if !lit.Complete {
			return false
		}
	}
	return true
}

// MinLen returns the length of the shortest literal, or 0 for an empty
// sequence.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	m := s.literals[0].Len()
	for _, lit := range s.literals[1:] {
		m = min(m, lit.Len())
	}
	return m
}

// Clone returns a deep copy of the sequence.
// All literals and their byte slices are duplicated.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}

	cloned := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		cloned[i] = Literal{
			Bytes:    bytes.Clone(lit.Bytes),
			Complete: lit.Complete,
		}
	}

	return &Seq{literals: cloned}
}

// MakeInexact clears the Complete flag on every literal.
func (s *Seq) MakeInexact() {
	if s == nil {
		return
	}
	for i := range s.literals {
		s.literals[i].Complete = false
	}
}

// Dedup removes duplicate literals, keeping the first occurrence.
func (s *Seq) Dedup() {
	if s.IsEmpty() {
		return
	}
	kept := s.literals[:0]
	for _, lit := range s.literals {
		if !slices.ContainsFunc(kept, func(k Literal) bool { return bytes.Equal(k.Bytes, lit.Bytes) }) {
			kept = append(kept, lit)
		}
	}
	s.literals = kept
}

// Minimize removes literals made redundant by a shorter one.
//
// A Seq is used as "the input contains at least one of these", so a literal
// L is redundant when a shorter literal S occurs inside it: anything that
// contains L also contains S. Complete sequences are exact sets and are only
// deduplicated.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("-"), false),
//	    literal.NewLiteral([]byte("a-b"), false),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 (only "-" remains)
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}
	s.Dedup()
	if s.IsComplete() {
		return
	}

	slices.SortStableFunc(s.literals, func(a, b Literal) int {
		return a.Len() - b.Len()
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := slices.ContainsFunc(kept, func(k Literal) bool {
			return bytes.Contains(current.Bytes, k.Bytes)
		})
		if !redundant {
			kept = append(kept, current)
		}
	}
	s.literals = kept
}

// Union returns the literals of both sequences. Returns nil when the result
// would exceed limit literals.
func Union(a, b *Seq, limit int) *Seq {
	if a.Len()+b.Len() > limit {
		return nil
	}
	lits := make([]Literal, 0, a.Len()+b.Len())
	lits = append(lits, a.Literals()...)
	lits = append(lits, b.Literals()...)
	out := NewSeq(lits...)
	out.Dedup()
	return out
}

// Cross returns every concatenation of a literal from a followed by a
// literal from b. A result literal is Complete only when both halves are.
// Returns nil when the product would exceed limit literals or any literal
// would be longer than maxLen bytes.
func Cross(a, b *Seq, limit, maxLen int) *Seq {
	if a.IsEmpty() || b.IsEmpty() || a.Len()*b.Len() > limit {
		return nil
	}
	lits := make([]Literal, 0, a.Len()*b.Len())
	for _, x := range a.literals {
		for _, y := range b.literals {
			if x.Len()+y.Len() > maxLen {
				return nil
			}
			joined := make([]byte, 0, x.Len()+y.Len())
			joined = append(joined, x.Bytes...)
			joined = append(joined, y.Bytes...)
			lits = append(lits, NewLiteral(joined, x.Complete && y.Complete))
		}
	}
	out := NewSeq(lits...)
	out.Dedup()
	return out
}

package literal

import (
	"github.com/coregx/ahocorasick"
)

// Prefilter rejects input that contains none of a pattern's required
// literals. It never rejects input the pattern could match.
//
// A Prefilter is immutable and safe for concurrent use.
type Prefilter struct {
	ac       *ahocorasick.Automaton
	literals *Seq
}

// NewPrefilter builds a multi-literal matcher over seq.
// Returns (nil, nil) when seq cannot filter anything: it is empty or holds
// the empty literal, which every input contains.
func NewPrefilter(seq *Seq) (*Prefilter, error) {
	if seq.IsEmpty() || seq.MinLen() == 0 {
		return nil, nil
	}

	builder := ahocorasick.NewBuilder()
	for _, lit := range seq.Literals() {
		builder.AddPattern(lit.Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Prefilter{ac: auto, literals: seq.Clone()}, nil
}

// MayMatch reports whether input contains at least one required literal.
// A nil Prefilter lets everything through.
func (p *Prefilter) MayMatch(input string) bool {
	if p == nil {
		return true
	}
	return p.ac.IsMatch([]byte(input))
}

// Literals returns a copy of the literals the prefilter searches for.
func (p *Prefilter) Literals() *Seq {
	if p == nil {
		return nil
	}
	return p.literals.Clone()
}

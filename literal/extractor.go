package literal

import (
	"unicode/utf8"

	"github.com/coregx/incregex/pattern"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: prevents building very long literals from repeats
//   - MaxClassSize: controls expansion of character classes like [-/]
//
// Example:
//
//	config := literal.ExtractorConfig{
//	    MaxLiterals:   64,
//	    MaxLiteralLen: 64,
//	    MaxClassSize:  0,
//	}
//	extractor := literal.New(config)
type ExtractorConfig struct {
	// MaxLiterals limits the maximum number of literals to extract.
	// Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the maximum length of each extracted literal.
	// Default: 64.
	MaxLiteralLen int

	// MaxClassSize is the largest character class expanded into one literal
	// per member. Default: 0, classes are never expanded: the meaning of
	// \s \w and friends differs between JavaScript and Go, and a literal
	// taken from one would wrongly reject input the other accepts.
	MaxClassSize int

	// MaxDepth bounds recursion into the syntax tree. Default: 100.
	MaxDepth int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  0,
		MaxDepth:      100,
	}
}

// Extractor extracts required literals from pattern syntax trees.
//
// Algorithm overview:
//  1. Walk the tree computing, for each node, its exact language when that
//     is a small finite set, and otherwise a set of literals every match of
//     the node contains
//  2. Concatenations cross-multiply runs of exact pieces and keep the best
//     run or required set found along the way
//  3. Alternations union their branches; a branch with nothing required
//     makes the whole alternation require nothing
//  4. Case-folded characters, classes, empty groups and unsupported nodes
//     break runs
//
// Example:
//
//	root, _ := pattern.Parse(`^[^@\s]+@[^@\s]+$`, "")
//	seq := literal.New(literal.DefaultConfig()).ExtractRequired(root)
//	// seq = ["@"]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	if config.MaxDepth == 0 {
		config.MaxDepth = DefaultConfig().MaxDepth
	}
	return &Extractor{config: config}
}

// facts is what extraction knows about one node.
type facts struct {
	exact    *Seq // every string the node matches, all Complete
	required *Seq // every match contains at least one of these
}

// ExtractRequired returns literals such that every string matching root
// contains at least one of them. When the result IsComplete it lists exactly
// the strings root matches.
//
// Returns nil when no non-empty literal is required.
func (e *Extractor) ExtractRequired(root *pattern.Node) *Seq {
	if root == nil {
		return nil
	}
	f := e.extract(root, 0)
	seq := f.exact
	if seq == nil {
		seq = f.required
	}
	if seq.IsEmpty() || seq.MinLen() == 0 {
		return nil
	}
	seq = seq.Clone()
	seq.Minimize()
	return seq
}

func (e *Extractor) extract(n *pattern.Node, depth int) facts {
	if n == nil || depth > e.config.MaxDepth {
		return facts{}
	}

	switch n.Kind {
	case pattern.Character:
		if n.Fold || n.Char == utf8.RuneError || !utf8.ValidRune(n.Char) {
			return facts{}
		}
		return facts{exact: NewSeq(NewLiteral(utf8.AppendRune(nil, n.Char), true))}

	case pattern.CharacterClass:
		return e.extractClass(n)

	case pattern.Alternative, pattern.Group:
		return e.extractConcat(n.Sub, depth)

	case pattern.Disjunction:
		return e.extractDisjunction(n.Sub, depth)

	case pattern.Quantifier:
		if len(n.Sub) == 0 {
			return facts{}
		}
		return e.extractRepeat(n.Sub[0], n.Min, n.Max, depth)

	case pattern.Assertion:
		// Zero-width: contributes the empty string to a run.
		return facts{exact: NewSeq(NewLiteral([]byte{}, true))}

	default:
		return facts{}
	}
}

func (e *Extractor) extractClass(n *pattern.Node) facts {
	if n.Negated || e.config.MaxClassSize <= 0 {
		return facts{}
	}
	size := 0
	for _, r := range n.Ranges {
		size += r.Len()
	}
	if size == 0 || size > e.config.MaxClassSize || size > e.config.MaxLiterals {
		return facts{}
	}

	seq := NewSeq()
	for _, r := range n.Ranges {
		for ch := r.Lo; ch <= r.Hi && r.Len() > 0; ch++ {
			if ch == utf8.RuneError || !utf8.ValidRune(ch) {
				return facts{}
			}
			seq.literals = append(seq.literals, NewLiteral(utf8.AppendRune(nil, ch), true))
		}
	}
	return facts{exact: seq}
}

// extractConcat walks subs left to right, growing a run of exact pieces by
// cross product and remembering the best run or required set seen.
func (e *Extractor) extractConcat(subs []*pattern.Node, depth int) facts {
	if len(subs) == 0 {
		// Treated as unknown, so an empty group keeps its neighbours apart.
		return facts{}
	}

	var best, run *Seq
	allExact := true
	for _, sub := range subs {
		f := e.extract(sub, depth+1)
		if f.exact == nil {
			allExact = false
			best = better(best, run)
			best = better(best, f.required)
			run = nil
			continue
		}
		if run == nil {
			run = f.exact
			continue
		}
		next := Cross(run, f.exact, e.config.MaxLiterals, e.config.MaxLiteralLen)
		if next == nil {
			allExact = false
			best = better(best, run)
			run = f.exact
			continue
		}
		run = next
	}

	if allExact {
		return facts{exact: run}
	}
	return facts{required: better(best, run)}
}

func (e *Extractor) extractDisjunction(subs []*pattern.Node, depth int) facts {
	if len(subs) == 0 {
		return facts{}
	}

	exact, required := NewSeq(), NewSeq()
	for _, sub := range subs {
		f := e.extract(sub, depth+1)

		if exact != nil {
			if f.exact == nil {
				exact = nil
			} else {
				exact = Union(exact, f.exact, e.config.MaxLiterals)
			}
		}

		if required != nil {
			s := f.exact
			if s == nil {
				s = f.required
			}
			if s.IsEmpty() || s.MinLen() == 0 {
				required = nil
			} else {
				required = Union(required, inexact(s), e.config.MaxLiterals)
			}
		}

		if exact == nil && required == nil {
			return facts{}
		}
	}

	if exact != nil {
		return facts{exact: exact}
	}
	return facts{required: required}
}

func (e *Extractor) extractRepeat(sub *pattern.Node, minCount, maxCount, depth int) facts {
	f := e.extract(sub, depth+1)

	switch {
	case minCount == 0:
		if maxCount == 1 && f.exact != nil {
			return facts{exact: Union(NewSeq(NewLiteral([]byte{}, true)), f.exact, e.config.MaxLiterals)}
		}
		return facts{}

	case minCount == maxCount && f.exact != nil:
		acc := f.exact
		for range minCount - 1 {
			acc = Cross(acc, f.exact, e.config.MaxLiterals, e.config.MaxLiteralLen)
			if acc == nil {
				return facts{required: inexact(f.exact)}
			}
		}
		return facts{exact: acc}

	case f.exact != nil:
		return facts{required: inexact(f.exact)}

	default:
		return facts{required: f.required}
	}
}

// better returns whichever of cur and cand makes the stronger filter: the
// one whose shortest literal is longer, then the one with fewer literals.
// Candidates containing the empty literal never win.
func better(cur, cand *Seq) *Seq {
	if cand.IsEmpty() || cand.MinLen() == 0 {
		return cur
	}
	if cur != nil {
		if cur.MinLen() > cand.MinLen() {
			return cur
		}
		if cur.MinLen() == cand.MinLen() && cur.Len() <= cand.Len() {
			return cur
		}
	}
	return inexact(cand)
}

func inexact(s *Seq) *Seq {
	c := s.Clone()
	c.MakeInexact()
	return c
}

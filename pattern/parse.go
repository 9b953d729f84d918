package pattern

import (
	"regexp/syntax"
	"slices"
)

// Parse parses a regex source with JavaScript flags into a syntax tree.
//
// The returned tree keeps quantifiers as written: a{2,4} stays a single
// Quantifier node rather than being expanded.
//
// Backreferences and lookaround become Unsupported nodes.
//
// Returns *PatternSyntaxError if the flags or the source are invalid.
func Parse(source, flags string) (*Node, error) {
	f, err := ParseFlags(flags)
	if err != nil {
		return nil, &PatternSyntaxError{Pattern: source, Flags: flags, Err: err}
	}
	src, placeholders, err := normalize(source, f)
	if err != nil {
		return nil, &PatternSyntaxError{Pattern: source, Flags: flags, Err: err}
	}
	re, err := syntax.Parse(src, syntaxFlags(f))
	if err != nil {
		return nil, &PatternSyntaxError{Pattern: source, Flags: flags, Err: err}
	}
	c := converter{placeholders: placeholders}
	return c.convert(re), nil
}

// ParsePattern is Parse for a Pattern value.
func ParsePattern(p Pattern) (*Node, error) {
	return Parse(p.Source, p.Flags)
}

func syntaxFlags(f Flags) syntax.Flags {
	sf := syntax.Perl
	if f.Has(IgnoreCase) {
		sf |= syntax.FoldCase
	}
	if f.Has(DotAll) {
		sf |= syntax.DotNL
	}
	if f.Has(Multiline) {
		sf &^= syntax.OneLine
	}
	return sf
}

// converter maps a regexp/syntax tree onto Node values.
type converter struct {
	// placeholders are the capture indexes normalize emitted in place of
	// constructs the automaton cannot express.
	placeholders []int
}

func (c *converter) convert(re *syntax.Regexp) *Node {
	switch re.Op {
	case syntax.OpNoMatch:
		return NewClass(false)
	case syntax.OpEmptyMatch:
		return NewAlternative()
	case syntax.OpLiteral:
		fold := re.Flags&syntax.FoldCase != 0
		if len(re.Rune) == 1 {
			return &Node{Kind: Character, Char: re.Rune[0], Fold: fold}
		}
		subs := make([]*Node, len(re.Rune))
		for i, r := range re.Rune {
			subs[i] = &Node{Kind: Character, Char: r, Fold: fold}
		}
		return NewAlternative(subs...)
	case syntax.OpCharClass:
		// Rune holds inclusive pairs: [lo1, hi1, lo2, hi2, ...]
		ranges := make([]Range, 0, len(re.Rune)/2)
		for i := 0; i+1 < len(re.Rune); i += 2 {
			ranges = append(ranges, Range{Lo: re.Rune[i], Hi: re.Rune[i+1]})
		}
		return NewClass(false, ranges...)
	case syntax.OpAnyCharNotNL:
		// JavaScript's dot stops at every line terminator, not only \n.
		return NewClass(true,
			Range{Lo: '\n', Hi: '\n'},
			Range{Lo: '\r', Hi: '\r'},
			Range{Lo: 0x2028, Hi: 0x2029},
		)
	case syntax.OpAnyChar:
		return NewClass(false, Range{Lo: 0, Hi: maxRune})
	case syntax.OpBeginLine, syntax.OpBeginText:
		return NewAssertion(AssertStart)
	case syntax.OpEndLine, syntax.OpEndText:
		return NewAssertion(AssertEnd)
	case syntax.OpWordBoundary:
		return NewAssertion(AssertWordBoundary)
	case syntax.OpNoWordBoundary:
		return NewAssertion(AssertNotWordBoundary)
	case syntax.OpCapture:
		if slices.Contains(c.placeholders, re.Cap) {
			return &Node{Kind: Unsupported}
		}
		g := NewGroup(c.convert(re.Sub[0]))
		g.Name = re.Name
		return g
	case syntax.OpStar:
		return NewQuantifier(c.convert(re.Sub[0]), 0, Unbounded)
	case syntax.OpPlus:
		return NewQuantifier(c.convert(re.Sub[0]), 1, Unbounded)
	case syntax.OpQuest:
		return NewQuantifier(c.convert(re.Sub[0]), 0, 1)
	case syntax.OpRepeat:
		// syntax uses -1 for an open upper bound, same as Unbounded.
		return NewQuantifier(c.convert(re.Sub[0]), re.Min, re.Max)
	case syntax.OpConcat:
		return NewAlternative(c.convertAll(re.Sub)...)
	case syntax.OpAlternate:
		return NewDisjunction(c.convertAll(re.Sub)...)
	default:
		return &Node{Kind: Unsupported}
	}
}

func (c *converter) convertAll(subs []*syntax.Regexp) []*Node {
	out := make([]*Node, len(subs))
	for i, sub := range subs {
		out[i] = c.convert(sub)
	}
	return out
}

// Package pattern parses regular-expression sources into the syntax tree
// consumed by the NFA compiler.
//
// The accepted grammar is the subset used by form-field validators written as
// JavaScript regex literals: literal characters, bracket classes with ranges,
// the \d \w \s meta-classes and their negations, the quantifiers {m} {m,n}
// {m,} * + ?, capturing and non-capturing groups, alternation and the ^ and $
// anchors. Parsing is delegated to regexp/syntax after the JavaScript-only
// escapes have been rewritten, and its tree is converted into Node values.
//
// Basic usage:
//
//	p := pattern.MustParseLiteral(`/^[A-Z][0-9]{7}$/`)
//	root, err := pattern.Parse(p.Source, p.Flags)
//	if err != nil {
//	    log.Fatal(err)
//	}
package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Unbounded is the Max of a quantifier without an upper limit ({m,}, *, +).
const Unbounded = -1

// Kind identifies the variant held by a Node.
type Kind uint8

const (
	// Character matches one literal code point (Node.Char).
	Character Kind = iota

	// CharacterClass matches one code point from Node.Ranges, or from its
	// complement when Node.Negated is set.
	CharacterClass

	// Quantifier repeats Node.Sub[0] between Node.Min and Node.Max times.
	Quantifier

	// Group wraps Node.Sub[0]. Only capturing groups survive parsing;
	// (?:...) is folded into its content.
	Group

	// Disjunction matches any one of Node.Sub.
	Disjunction

	// Alternative is the concatenation of Node.Sub. An empty Alternative
	// matches the empty string.
	Alternative

	// Assertion is a zero-width check (Node.Assert).
	Assertion

	// Unsupported marks a construct the compiler cannot express. It is
	// compiled as an always-passable empty edge.
	Unsupported
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Character:
		return "Character"
	case CharacterClass:
		return "CharacterClass"
	case Quantifier:
		return "Quantifier"
	case Group:
		return "Group"
	case Disjunction:
		return "Disjunction"
	case Alternative:
		return "Alternative"
	case Assertion:
		return "Assertion"
	case Unsupported:
		return "Unsupported"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// AssertKind identifies a zero-width assertion.
type AssertKind uint8

const (
	AssertStart AssertKind = iota
	AssertEnd
	AssertWordBoundary
	AssertNotWordBoundary
)

func (a AssertKind) String() string {
	switch a {
	case AssertStart:
		return "^"
	case AssertEnd:
		return "$"
	case AssertWordBoundary:
		return `\b`
	case AssertNotWordBoundary:
		return `\B`
	default:
		return fmt.Sprintf("AssertKind(%d)", a)
	}
}

// Range is an inclusive code point range [Lo, Hi].
type Range struct {
	Lo, Hi rune
}

// Len returns the number of code points in the range.
func (r Range) Len() int {
	if r.Hi < r.Lo {
		return 0
	}
	return int(r.Hi-r.Lo) + 1
}

// Node is one vertex of the pattern syntax tree. Kind decides which fields
// are meaningful.
type Node struct {
	Kind Kind

	// Character
	Char rune
	Fold bool // match every simple case folding of Char

	// CharacterClass
	Ranges  []Range
	Negated bool

	// Quantifier
	Min, Max int

	// Assertion
	Assert AssertKind

	// Group
	Capturing bool
	Name      string

	Sub []*Node
}

// NewCharacter returns a Character node.
func NewCharacter(r rune) *Node {
	return &Node{Kind: Character, Char: r}
}

// NewClass returns a CharacterClass node over the given ranges.
func NewClass(negated bool, ranges ...Range) *Node {
	return &Node{Kind: CharacterClass, Ranges: ranges, Negated: negated}
}

// NewQuantifier returns a Quantifier node repeating sub between min and max
// times. Use Unbounded for max to leave the upper limit open.
func NewQuantifier(sub *Node, minCount, maxCount int) *Node {
	return &Node{Kind: Quantifier, Min: minCount, Max: maxCount, Sub: []*Node{sub}}
}

// NewAlternative returns the concatenation of subs.
func NewAlternative(subs ...*Node) *Node {
	return &Node{Kind: Alternative, Sub: subs}
}

// NewDisjunction returns a node matching any of subs.
func NewDisjunction(subs ...*Node) *Node {
	return &Node{Kind: Disjunction, Sub: subs}
}

// NewGroup returns a capturing group around sub.
func NewGroup(sub *Node) *Node {
	return &Node{Kind: Group, Capturing: true, Sub: []*Node{sub}}
}

// NewAssertion returns a zero-width assertion node.
func NewAssertion(a AssertKind) *Node {
	return &Node{Kind: Assertion, Assert: a}
}

// Walk calls fn for n and every descendant in pre-order. If fn returns false
// the children of that node are skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, sub := range n.Sub {
		Walk(sub, fn)
	}
}

// HasUnsupported reports whether the tree under n contains an Unsupported
// node, in which case an automaton built from it accepts more than the
// pattern does.
func HasUnsupported(n *Node) bool {
	found := false
	Walk(n, func(n *Node) bool {
		if n.Kind == Unsupported {
			found = true
		}
		return !found
	})
	return found
}

// String renders the node back into regex syntax. The output parses to an
// equivalent tree but is not necessarily identical to the original source.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n == nil {
		return
	}
	switch n.Kind {
	case Character:
		if n.Fold && unicode.SimpleFold(n.Char) != n.Char {
			b.WriteByte('[')
			for r := n.Char; ; {
				writeRune(b, r, true)
				if r = unicode.SimpleFold(r); r == n.Char {
					break
				}
			}
			b.WriteByte(']')
			return
		}
		writeRune(b, n.Char, false)
	case CharacterClass:
		b.WriteByte('[')
		if n.Negated {
			b.WriteByte('^')
		}
		for _, r := range n.Ranges {
			writeRune(b, r.Lo, true)
			if r.Hi != r.Lo {
				b.WriteByte('-')
				writeRune(b, r.Hi, true)
			}
		}
		b.WriteByte(']')
	case Quantifier:
		b.WriteString("(?:")
		n.Sub[0].write(b)
		b.WriteByte(')')
		switch {
		case n.Min == 0 && n.Max == Unbounded:
			b.WriteByte('*')
		case n.Min == 1 && n.Max == Unbounded:
			b.WriteByte('+')
		case n.Min == 0 && n.Max == 1:
			b.WriteByte('?')
		case n.Max == Unbounded:
			b.WriteString("{" + strconv.Itoa(n.Min) + ",}")
		case n.Min == n.Max:
			b.WriteString("{" + strconv.Itoa(n.Min) + "}")
		default:
			b.WriteString("{" + strconv.Itoa(n.Min) + "," + strconv.Itoa(n.Max) + "}")
		}
	case Group:
		switch {
		case n.Name != "":
			b.WriteString("(?<" + n.Name + ">")
		case n.Capturing:
			b.WriteByte('(')
		default:
			b.WriteString("(?:")
		}
		for _, sub := range n.Sub {
			sub.write(b)
		}
		b.WriteByte(')')
	case Disjunction:
		b.WriteString("(?:")
		for i, sub := range n.Sub {
			if i > 0 {
				b.WriteByte('|')
			}
			sub.write(b)
		}
		b.WriteByte(')')
	case Alternative:
		for _, sub := range n.Sub {
			sub.write(b)
		}
	case Assertion:
		b.WriteString(n.Assert.String())
	case Unsupported:
		b.WriteString("(?:)")
	}
}

func writeRune(b *strings.Builder, r rune, inClass bool) {
	switch {
	case r < 0x20 || r == 0x7f:
		fmt.Fprintf(b, `\u%04x`, r)
	case strings.ContainsRune(`\.+*?()|[]{}^$/`, r):
		b.WriteByte('\\')
		b.WriteRune(r)
	case inClass && r == '-':
		b.WriteString(`\-`)
	default:
		b.WriteRune(r)
	}
}

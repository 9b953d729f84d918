package nfa

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"unicode"

	"github.com/coregx/incregex/pattern"
)

// CompilerConfig configures NFA compilation behavior
type CompilerConfig struct {
	// MaxClassExpansion is the largest character class, counted in code
	// points, that is emitted as one edge per character. Larger classes keep
	// their ranges as range edges.
	// Default: 256
	MaxClassExpansion int

	// MaxRecursionDepth limits recursion during compilation to prevent stack overflow
	// Default: 100
	MaxRecursionDepth int

	// MaxStates bounds the size of the automaton. Patterns that need more
	// states fail with ErrTooComplex.
	// Default: 100000
	MaxStates int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxClassExpansion: 256,
		MaxRecursionDepth: 100,
		MaxStates:         100_000,
	}
}

// Compiler compiles pattern syntax trees into Thompson NFAs
type Compiler struct {
	config  CompilerConfig
	builder *Builder
	depth   int // current recursion depth
}

// NewCompiler creates a new NFA compiler with the given configuration.
// Zero fields take their default values.
func NewCompiler(config CompilerConfig) *Compiler {
	def := DefaultCompilerConfig()
	if config.MaxClassExpansion == 0 {
		config.MaxClassExpansion = def.MaxClassExpansion
	}
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = def.MaxRecursionDepth
	}
	if config.MaxStates == 0 {
		config.MaxStates = def.MaxStates
	}
	return &Compiler{
		config:  config,
		builder: NewBuilder(),
	}
}

// NewDefaultCompiler creates a new NFA compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// CompilePattern parses source with JavaScript flags and compiles it.
// Parse failures are returned unchanged as *pattern.PatternSyntaxError.
func (c *Compiler) CompilePattern(source, flags string) (*NFA, error) {
	root, err := pattern.Parse(source, flags)
	if err != nil {
		return nil, err
	}
	n, err := c.Compile(root, WithSource(source))
	if err != nil {
		var ce *CompileError
		if errors.As(err, &ce) {
			ce.Pattern = source
		}
		return nil, err
	}
	return n, nil
}

// Compile builds an NFA from a syntax tree.
//
// The result has a single start state and a single accepting state. Every
// edge out of a fragment is either epsilon or consumes exactly one code point.
func (c *Compiler) Compile(root *pattern.Node, opts ...BuildOption) (*NFA, error) {
	if root == nil {
		return nil, &CompileError{Err: ErrNilNode}
	}
	c.builder = NewBuilder()
	c.depth = 0

	f, err := c.compile(root)
	if err != nil {
		return nil, err
	}
	c.builder.SetStart(f.start)
	c.builder.AddAccept(f.accept)

	n, err := c.builder.Build(opts...)
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	return n, nil
}

// fragment is a partially built automaton with one entry and one exit.
type fragment struct {
	start, accept StateID
}

func (c *Compiler) compile(n *pattern.Node) (fragment, error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.config.MaxRecursionDepth {
		return fragment{}, &CompileError{
			Err: fmt.Errorf("%w: nesting deeper than %d", ErrTooComplex, c.config.MaxRecursionDepth),
		}
	}
	if c.builder.States() > c.config.MaxStates {
		return fragment{}, &CompileError{
			Err: fmt.Errorf("%w: more than %d states", ErrTooComplex, c.config.MaxStates),
		}
	}

	switch n.Kind {
	case pattern.Character:
		return c.compileCharacter(n.Char, n.Fold), nil
	case pattern.CharacterClass:
		return c.compileClass(n.Ranges, n.Negated), nil
	case pattern.Alternative, pattern.Group:
		return c.compileConcat(n.Sub)
	case pattern.Disjunction:
		return c.compileDisjunction(n.Sub)
	case pattern.Quantifier:
		if len(n.Sub) == 0 {
			return c.compileEmpty(), nil
		}
		return c.compileQuantifier(n.Sub[0], n.Min, n.Max)
	default:
		// Assertions and unsupported constructs are always passable.
		return c.compileEmpty(), nil
	}
}

func (c *Compiler) compileEmpty() fragment {
	s := c.builder.AddState()
	return fragment{start: s, accept: s}
}

func (c *Compiler) compileCharacter(r rune, fold bool) fragment {
	start := c.builder.AddState()
	accept := c.builder.AddState()
	c.builder.AddSymbol(start, accept, r)
	if fold {
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			c.builder.AddSymbol(start, accept, f)
		}
	}
	return fragment{start: start, accept: accept}
}

// compileClass emits one edge per member for small classes and one edge per
// range otherwise. An empty class yields a fragment with no way through.
func (c *Compiler) compileClass(ranges []pattern.Range, negated bool) fragment {
	if negated {
		ranges = complement(ranges)
	}
	start := c.builder.AddState()
	accept := c.builder.AddState()

	size := 0
	for _, r := range ranges {
		size += r.Len()
	}
	expand := size <= c.config.MaxClassExpansion
	for _, r := range ranges {
		if r.Len() == 0 {
			continue
		}
		if !expand {
			c.builder.AddRange(start, accept, r.Lo, r.Hi)
			continue
		}
		for ch := r.Lo; ch <= r.Hi; ch++ {
			c.builder.AddSymbol(start, accept, ch)
		}
	}
	return fragment{start: start, accept: accept}
}

// complement returns the code points in [0, unicode.MaxRune] not covered by
// ranges, as sorted disjoint ranges.
func complement(ranges []pattern.Range) []pattern.Range {
	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b pattern.Range) int {
		return cmp.Compare(a.Lo, b.Lo)
	})

	var out []pattern.Range
	next := rune(0)
	for _, r := range sorted {
		if r.Len() == 0 {
			continue
		}
		if r.Lo > next {
			out = append(out, pattern.Range{Lo: next, Hi: r.Lo - 1})
		}
		if r.Hi+1 > next {
			next = r.Hi + 1
		}
	}
	if next <= unicode.MaxRune {
		out = append(out, pattern.Range{Lo: next, Hi: unicode.MaxRune})
	}
	return out
}

func (c *Compiler) compileConcat(subs []*pattern.Node) (fragment, error) {
	if len(subs) == 0 {
		return c.compileEmpty(), nil
	}
	first, err := c.compile(subs[0])
	if err != nil {
		return fragment{}, err
	}
	last := first
	for _, sub := range subs[1:] {
		f, err := c.compile(sub)
		if err != nil {
			return fragment{}, err
		}
		c.builder.AddEpsilon(last.accept, f.start)
		last = f
	}
	return fragment{start: first.start, accept: last.accept}, nil
}

func (c *Compiler) compileDisjunction(subs []*pattern.Node) (fragment, error) {
	switch len(subs) {
	case 0:
		return c.compileEmpty(), nil
	case 1:
		return c.compile(subs[0])
	}
	start := c.builder.AddState()
	accept := c.builder.AddState()
	for _, sub := range subs {
		f, err := c.compile(sub)
		if err != nil {
			return fragment{}, err
		}
		c.builder.AddEpsilon(start, f.start)
		c.builder.AddEpsilon(f.accept, accept)
	}
	return fragment{start: start, accept: accept}, nil
}

// compileQuantifier expands sub{min,max}.
//
//	x* x+ x?   one copy of x with skip and loop edges
//	x{m}       m copies in sequence
//	x{m,}      m-1 copies followed by x+
//	x{m,n}     m copies followed by n-m optional copies
func (c *Compiler) compileQuantifier(sub *pattern.Node, minCount, maxCount int) (fragment, error) {
	if minCount < 0 || (maxCount != pattern.Unbounded && minCount > maxCount) {
		return fragment{}, &CompileError{
			Err: fmt.Errorf("invalid repeat count {%d,%d}", minCount, maxCount),
		}
	}

	switch {
	case maxCount == minCount:
		return c.compileExact(sub, minCount)
	case minCount <= 1 && (maxCount == 1 || maxCount == pattern.Unbounded):
		return c.compileLoop(sub, minCount, maxCount)
	case maxCount == pattern.Unbounded:
		head, err := c.compileExact(sub, minCount-1)
		if err != nil {
			return fragment{}, err
		}
		tail, err := c.compileLoop(sub, 1, pattern.Unbounded)
		if err != nil {
			return fragment{}, err
		}
		c.builder.AddEpsilon(head.accept, tail.start)
		return fragment{start: head.start, accept: tail.accept}, nil
	default:
		head, err := c.compileExact(sub, minCount)
		if err != nil {
			return fragment{}, err
		}
		last := head
		for range maxCount - minCount {
			opt, err := c.compileLoop(sub, 0, 1)
			if err != nil {
				return fragment{}, err
			}
			c.builder.AddEpsilon(last.accept, opt.start)
			last = opt
		}
		return fragment{start: head.start, accept: last.accept}, nil
	}
}

func (c *Compiler) compileExact(sub *pattern.Node, count int) (fragment, error) {
	if count == 0 {
		return c.compileEmpty(), nil
	}
	subs := make([]*pattern.Node, count)
	for i := range subs {
		subs[i] = sub
	}
	return c.compileConcat(subs)
}

// compileLoop wraps one copy of sub in fresh start and accept states, adding
// a skip edge when minCount is 0 and a back edge when maxCount is open.
func (c *Compiler) compileLoop(sub *pattern.Node, minCount, maxCount int) (fragment, error) {
	start := c.builder.AddState()
	inner, err := c.compile(sub)
	if err != nil {
		return fragment{}, err
	}
	accept := c.builder.AddState()

	c.builder.AddEpsilon(start, inner.start)
	c.builder.AddEpsilon(inner.accept, accept)
	if minCount == 0 {
		c.builder.AddEpsilon(start, accept)
	}
	if maxCount == pattern.Unbounded {
		c.builder.AddEpsilon(inner.accept, inner.start)
	}
	return fragment{start: start, accept: accept}, nil
}

// Compile parses and compiles source with the default configuration.
func Compile(source, flags string) (*NFA, error) {
	return NewDefaultCompiler().CompilePattern(source, flags)
}

// MustCompile is like Compile but panics on error.
func MustCompile(source, flags string) *NFA {
	n, err := Compile(source, flags)
	if err != nil {
		panic(err)
	}
	return n
}

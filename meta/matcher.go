package meta

import (
	"errors"
	"fmt"
	"sync"

	"github.com/coregx/incregex/literal"
	"github.com/coregx/incregex/nfa"
	"github.com/coregx/incregex/pattern"
)

// Automaton identifies how a Matcher answers prefix queries.
type Automaton uint8

const (
	// Built matchers simulate a compiled NFA.
	Built Automaton = iota

	// Permissive matchers stand in for a pattern that failed to build:
	// every prefix can still match, and full matches are left to the
	// oracle when it accepted the pattern.
	Permissive
)

// String returns a human-readable representation of the automaton kind.
func (a Automaton) String() string {
	switch a {
	case Built:
		return "Built"
	case Permissive:
		return "Permissive"
	default:
		return fmt.Sprintf("Automaton(%d)", a)
	}
}

// Matcher answers full and partial match queries for one pattern.
//
// A Matcher is immutable after construction and safe for concurrent use;
// simulation scratch space is pooled internally.
//
// Example:
//
//	m, err := meta.Compile(pattern.MustParseLiteral(`/^[A-Z]{5}[0-9]{4}[A-Z]$/`), meta.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	m.CanPartiallyMatch("ABCDE12") // true
//	m.Matches("ABCDE1234F")        // true
type Matcher struct {
	pattern   pattern.Pattern
	automaton Automaton
	nfa       *nfa.NFA
	err       error

	oracle    *oracle
	oracleErr error
	prefilter *literal.Prefilter

	sims sync.Pool // *nfa.Simulator
}

// Compile builds a Matcher for p. Parse failures are returned as
// *pattern.PatternSyntaxError and compilation failures as *nfa.CompileError.
func Compile(p pattern.Pattern, cfg Config) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	root, err := pattern.ParsePattern(p)
	if err != nil {
		return nil, err
	}
	flags, _ := pattern.ParseFlags(p.Flags) // validated by ParsePattern

	compiler := nfa.NewCompiler(nfa.CompilerConfig{
		MaxClassExpansion: cfg.MaxClassExpansion,
		MaxRecursionDepth: cfg.MaxRecursionDepth,
		MaxStates:         cfg.MaxStates,
	})
	automaton, err := compiler.Compile(root, nfa.WithSource(p.Source))
	if err != nil {
		var ce *nfa.CompileError
		if errors.As(err, &ce) {
			ce.Pattern = p.Source
		}
		return nil, err
	}

	m := &Matcher{
		pattern:   p,
		automaton: Built,
		nfa:       automaton,
	}
	m.sims.New = func() any {
		return nfa.NewSimulator(automaton)
	}
	m.attachOracle(root, flags, cfg)

	if cfg.EnablePrefilter && !flags.Has(pattern.IgnoreCase) {
		extractor := literal.New(literal.ExtractorConfig{
			MaxLiterals:   cfg.MaxLiterals,
			MaxLiteralLen: 64,
		})
		// A failed build only costs the fast path.
		if pf, err := literal.NewPrefilter(extractor.ExtractRequired(root)); err == nil {
			m.prefilter = pf
		}
	}
	return m, nil
}

// CompilePermissive is like Compile but turns a pattern that fails to parse
// or compile into a Permissive Matcher that records the failure in Err.
// Only an invalid cfg is returned as an error.
func CompilePermissive(p pattern.Pattern, cfg Config) (*Matcher, error) {
	m, err := Compile(p, cfg)
	if err == nil {
		return m, nil
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return nil, err
	}

	// A Permissive matcher gets no oracle: nothing is known about the
	// pattern, so no input is a full match.
	return &Matcher{
		pattern:   p,
		automaton: Permissive,
		err:       err,
	}, nil
}

func (m *Matcher) attachOracle(root *pattern.Node, flags pattern.Flags, cfg Config) {
	if !cfg.EnableOracle {
		return
	}
	if pattern.HasUnsupported(root) {
		m.oracleErr = ErrOracleUnsupported
		return
	}
	m.oracle, m.oracleErr = newOracle(m.pattern.Source, flags, cfg.OracleTimeout)
}

// Matches reports whether all of input matches the pattern.
//
// Input lacking every required literal is rejected without running an
// engine. Otherwise the NFA must still be alive after the input, and the
// oracle then decides; the NFA decides alone when the oracle is unavailable
// or gives up. A full match therefore always implies CanPartiallyMatch.
// A Permissive matcher matches nothing.
func (m *Matcher) Matches(input string) bool {
	if m.automaton == Permissive || !m.prefilter.MayMatch(input) {
		return false
	}
	res := m.run(input)
	if !res.Alive {
		return false
	}
	if m.oracle != nil {
		if matched, ok := m.oracle.matches(input); ok {
			return matched
		}
	}
	return res.Accepted
}

// CanPartiallyMatch reports whether input could still be extended into a
// match: at least one NFA state survives all of it. The surviving state
// need not lead to an accepting state. Permissive matchers always return
// true.
func (m *Matcher) CanPartiallyMatch(input string) bool {
	if m.automaton == Permissive {
		return true
	}
	return m.run(input).Alive
}

// ValidPrefixLen returns the byte length of the longest prefix of input
// that can still partially match. It is a single simulation pass and agrees
// with extending the prefix one code point at a time.
func (m *Matcher) ValidPrefixLen(input string) int {
	if m.automaton == Permissive {
		return len(input)
	}
	return m.run(input).Consumed
}

func (m *Matcher) run(input string) nfa.Result {
	sim := m.sims.Get().(*nfa.Simulator)
	res := sim.Run(input)
	m.sims.Put(sim)
	return res
}

// Pattern returns the pattern the Matcher was built for.
func (m *Matcher) Pattern() pattern.Pattern {
	return m.pattern
}

// Automaton returns how the Matcher answers prefix queries.
func (m *Matcher) Automaton() Automaton {
	return m.automaton
}

// IsPermissive reports whether the pattern failed to build.
func (m *Matcher) IsPermissive() bool {
	return m.automaton == Permissive
}

// Err returns why a Permissive matcher could not be built, or nil.
func (m *Matcher) Err() error {
	return m.err
}

// NFA returns the compiled automaton, or nil for a Permissive matcher.
func (m *Matcher) NFA() *nfa.NFA {
	return m.nfa
}

// HasOracle reports whether full matches are decided by the oracle.
func (m *Matcher) HasOracle() bool {
	return m.oracle != nil
}

// OracleErr returns why the oracle is unavailable, or nil.
func (m *Matcher) OracleErr() error {
	return m.oracleErr
}

// RequiredLiterals returns the literals the prefilter looks for, or nil
// when the Matcher has no prefilter.
func (m *Matcher) RequiredLiterals() *literal.Seq {
	return m.prefilter.Literals()
}

package meta

import (
	"errors"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/coregx/incregex/pattern"
)

// ErrOracleUnsupported indicates a pattern with backreferences or
// lookaround, which the NFA approximates. The NFA alone decides full
// matches for such patterns.
var ErrOracleUnsupported = errors.New("meta: pattern is approximated by the automaton")

// oracle decides full matches with JavaScript regex semantics.
// A compiled regexp2.Regexp is safe for concurrent matching.
type oracle struct {
	re *regexp2.Regexp
}

// newOracle compiles source so that only a match spanning the whole input
// succeeds. The source is first rewritten so that regexp2 reads the dot and
// \s the JavaScript way.
func newOracle(source string, flags pattern.Flags, timeout time.Duration) (*oracle, error) {
	src, err := pattern.ECMAScriptSource(source, flags)
	if err != nil {
		return nil, err
	}
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	if flags.Has(pattern.IgnoreCase) {
		opts |= regexp2.IgnoreCase
	}
	if flags.Has(pattern.Multiline) {
		opts |= regexp2.Multiline
	}

	// (?![\s\S]) holds only at the end of input; $ alone would also accept
	// a position before a trailing newline, or any line end under /m.
	re, err := regexp2.Compile(`^(?:`+src+`)(?![\s\S])`, opts)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = timeout
	return &oracle{re: re}, nil
}

// matches reports whether all of input matches. ok is false when the engine
// gave up, typically on timeout.
func (o *oracle) matches(input string) (matched, ok bool) {
	m, err := o.re.FindStringMatch(input)
	if err != nil {
		return false, false
	}
	// Under /m the leading ^ may also match after a newline; only a match
	// starting at offset 0 covers the whole input.
	return m != nil && m.Index == 0, true
}

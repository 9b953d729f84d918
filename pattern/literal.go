package pattern

import (
	"fmt"
	"strings"
)

// Pattern is a regex source together with its flag string, as written in a
// JavaScript regex literal. Pattern is comparable and is used as a cache key.
type Pattern struct {
	Source string
	Flags  string
}

// String renders the pattern as a /source/flags literal.
func (p Pattern) String() string {
	return "/" + p.Source + "/" + p.Flags
}

// Canonical returns p with its flags in canonical order, so that /x/gi and
// /x/ig compare equal. Invalid flags are left untouched.
func (p Pattern) Canonical() Pattern {
	f, err := ParseFlags(p.Flags)
	if err != nil {
		return p
	}
	return Pattern{Source: p.Source, Flags: f.String()}
}

// ParseLiteral splits a /source/flags regex literal. The flags are validated
// but the source is not parsed.
func ParseLiteral(lit string) (Pattern, error) {
	if len(lit) < 2 || lit[0] != '/' {
		return Pattern{}, fmt.Errorf("%w: %q", ErrNotLiteral, lit)
	}
	end := strings.LastIndexByte(lit, '/')
	if end == 0 {
		return Pattern{}, fmt.Errorf("%w: %q has no closing slash", ErrNotLiteral, lit)
	}
	p := Pattern{Source: lit[1:end], Flags: lit[end+1:]}
	if _, err := ParseFlags(p.Flags); err != nil {
		return Pattern{}, &PatternSyntaxError{Pattern: p.Source, Flags: p.Flags, Err: err}
	}
	return p, nil
}

// MustParseLiteral is like ParseLiteral but panics on error.
func MustParseLiteral(lit string) Pattern {
	p, err := ParseLiteral(lit)
	if err != nil {
		panic("pattern: ParseLiteral(`" + lit + "`): " + err.Error())
	}
	return p
}

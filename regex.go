// Package incregex validates text-field input against a regular expression
// one keystroke at a time.
//
// Besides the usual "does this string match", incregex answers "can this
// string still become a match if the user keeps typing". Patterns are
// JavaScript regex literals such as /^[A-Z][0-9]{7}$/; each is parsed once,
// compiled into a Thompson NFA, and cached.
//
// Three results cover every input:
//   - Valid: the input matches in full
//   - PotentiallyValid: no match yet, but some continuation would match
//   - Invalid: no continuation can ever match
//
// Basic usage:
//
//	m := incregex.MustCompile(`/^(?:[A-Z][0-9]{8}|[0-9]{9}|[A-Z][0-9]{7})$/`)
//
//	incregex.Classify(m, "A")         // PotentiallyValid
//	incregex.Classify(m, "AB")        // Invalid
//	incregex.Classify(m, "A12345678") // Valid
//
//	// Drop keystrokes that cannot lead anywhere
//	incregex.TruncateToValidPrefix(m, "AB1234567") // "A"
//
// Field input arrives either typed or pasted. Apply handles both: typed text
// is truncated to its longest valid prefix, pasted text is kept verbatim and
// only classified.
//
//	res := incregex.Apply(m, incregex.ModePaste, "AB1234567")
//	// res.Value == "AB1234567", res.Status == Invalid
//
// Applications validating many fields share a Validator, which caches one
// Matcher per pattern and is safe for concurrent use.
package incregex

import (
	"github.com/coregx/incregex/meta"
	"github.com/coregx/incregex/pattern"
)

// Compile parses a regex literal such as /^[0-9]{5}$/i and builds its
// Matcher with the default configuration.
//
// Unlike a Validator, Compile never falls back to a permissive Matcher: a
// pattern that does not parse is returned as *pattern.PatternSyntaxError.
func Compile(literal string) (*meta.Matcher, error) {
	p, err := pattern.ParseLiteral(literal)
	if err != nil {
		return nil, err
	}
	return CompilePattern(p)
}

// CompilePattern is like Compile for a pattern given as source and flags.
func CompilePattern(p pattern.Pattern) (*meta.Matcher, error) {
	cfg := meta.DefaultConfig()
	cfg.PermissiveFallback = false
	return meta.Compile(p, cfg)
}

// MustCompile is like Compile but panics if the literal cannot be compiled.
// It simplifies safe initialization of global variables holding field
// patterns.
func MustCompile(literal string) *meta.Matcher {
	m, err := Compile(literal)
	if err != nil {
		panic(`incregex: Compile(` + quote(literal) + `): ` + err.Error())
	}
	return m
}

// DefaultConfig returns the default Matcher configuration.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// QuoteMeta returns a string that escapes all regular expression metacharacters
// inside the argument text; the returned string is a pattern source matching
// the literal text. The slash is escaped too, so the result can be placed
// inside a regex literal.
//
// Example:
//
//	src := incregex.QuoteMeta("1/2.5")
//	// src = `1\/2\.5`
//	m := incregex.MustCompile("/^" + src + "$/")
//	m.Matches("1/2.5") // true
func QuoteMeta(s string) string {
	// Special characters that need escaping in a JavaScript regex literal
	const special = `\.+*?()|[]{}^$/`

	// Count how many characters need escaping
	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}

	// If no escaping needed, return original
	if n == 0 {
		return s
	}

	// Build escaped string
	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}

// isSpecial returns true if c is in the special characters string.
func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}

func quote(s string) string {
	return "`" + s + "`"
}

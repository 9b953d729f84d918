package incregex

import (
	"unicode/utf8"
)

// Matcher is what the validation policy needs from a compiled pattern.
// *meta.Matcher implements it.
type Matcher interface {
	// Matches reports whether all of input matches.
	Matches(input string) bool

	// CanPartiallyMatch reports whether input can still be extended into
	// a match.
	CanPartiallyMatch(input string) bool
}

// prefixMatcher is implemented by matchers that find the longest partially
// matching prefix in one pass.
type prefixMatcher interface {
	ValidPrefixLen(input string) int
}

// Classify reports whether input is Valid, PotentiallyValid or Invalid for m.
// A full match is always Valid, never PotentiallyValid.
func Classify(m Matcher, input string) Status {
	switch {
	case m.Matches(input):
		return Valid
	case m.CanPartiallyMatch(input):
		return PotentiallyValid
	default:
		return Invalid
	}
}

// Matches reports whether all of input matches m.
func Matches(m Matcher, input string) bool {
	return m.Matches(input)
}

// TruncateToValidPrefix returns the longest prefix of input that can still
// partially match, extending one code point at a time and stopping at the
// first one that would break it. Nothing after that point is examined.
//
// The result is always a prefix of input and truncating it again returns it
// unchanged.
func TruncateToValidPrefix(m Matcher, input string) string {
	if pm, ok := m.(prefixMatcher); ok {
		return input[:pm.ValidPrefixLen(input)]
	}

	end := 0
	for end < len(input) {
		_, size := utf8.DecodeRuneInString(input[end:])
		if !m.CanPartiallyMatch(input[:end+size]) {
			break
		}
		end += size
	}
	return input[:end]
}

// Result is the outcome of Apply.
type Result struct {
	// Value is the content the field should hold.
	Value string `json:"value"`

	// Status classifies Value.
	Status Status `json:"status"`

	// Truncated is true when Value is shorter than the input.
	Truncated bool `json:"truncated"`
}

// Apply runs the entry policy for mode.
//
// ModeType truncates input to its longest valid prefix, so the resulting
// Status is never Invalid. ModePaste keeps input verbatim and classifies it,
// which may well be Invalid. Unknown modes are treated as ModeType.
func Apply(m Matcher, mode Mode, input string) Result {
	if mode == ModePaste {
		return Result{Value: input, Status: Classify(m, input)}
	}
	value := TruncateToValidPrefix(m, input)
	return Result{
		Value:     value,
		Status:    Classify(m, value),
		Truncated: len(value) < len(input),
	}
}

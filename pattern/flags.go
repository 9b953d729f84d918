package pattern

import (
	"fmt"
	"strings"
)

// Flags is the set of JavaScript regex flags attached to a pattern.
// The zero value corresponds to /pattern/ with no flags.
type Flags uint8

const (
	// Indices ("d") is accepted and ignored.
	Indices Flags = 1 << iota

	// Global ("g") is accepted and ignored; validation always tests the
	// whole value.
	Global

	// IgnoreCase ("i") enables simple case folding.
	IgnoreCase

	// Multiline ("m") lets ^ and $ match at line breaks. Anchors are
	// zero-width no-ops for whole-value validation, so it only affects the
	// full-match oracle.
	Multiline

	// DotAll ("s") makes . match line terminators.
	DotAll

	// Unicode ("u") enables \u{...} and \p{...}. Patterns are always
	// matched per code point.
	Unicode

	// Sticky ("y") is accepted and ignored.
	Sticky
)

// flagLetters lists the flag letters in canonical order, matching the order
// of the constants above.
const flagLetters = "dgimsuy"

// ParseFlags parses a JavaScript flag string such as "gi".
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for _, c := range s {
		i := strings.IndexRune(flagLetters, c)
		if i < 0 {
			return 0, fmt.Errorf("%w %q", ErrUnknownFlag, c)
		}
		bit := Flags(1) << i
		if f&bit != 0 {
			return 0, fmt.Errorf("%w %q", ErrDuplicateFlag, c)
		}
		f |= bit
	}
	return f, nil
}

// Has reports whether all bits of g are set in f.
func (f Flags) Has(g Flags) bool {
	return f&g == g
}

// String returns the flags in canonical order, e.g. "gim".
func (f Flags) String() string {
	var b strings.Builder
	for i := 0; i < len(flagLetters); i++ {
		if f&(1<<i) != 0 {
			b.WriteByte(flagLetters[i])
		}
	}
	return b.String()
}

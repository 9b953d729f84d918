package pattern

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFlag indicates a flag letter outside "dgimsuy".
	ErrUnknownFlag = errors.New("unknown regex flag")

	// ErrDuplicateFlag indicates the same flag letter given twice.
	ErrDuplicateFlag = errors.New("duplicate regex flag")

	// ErrNotLiteral indicates a string that is not a /source/flags literal.
	ErrNotLiteral = errors.New("not a regex literal")

	// ErrUnsupportedSyntax indicates group syntax JavaScript does not
	// define, such as inline flags or (?P<name>.
	ErrUnsupportedSyntax = errors.New("unsupported regex syntax")
)

// PatternSyntaxError reports a pattern that cannot be parsed by the
// supported grammar. It wraps the underlying *syntax.Error or flag error.
type PatternSyntaxError struct {
	Pattern string
	Flags   string
	Err     error
}

// Error implements the error interface.
func (e *PatternSyntaxError) Error() string {
	return fmt.Sprintf("pattern: invalid pattern /%s/%s: %v", e.Pattern, e.Flags, e.Err)
}

// Unwrap returns the underlying error.
func (e *PatternSyntaxError) Unwrap() error {
	return e.Err
}

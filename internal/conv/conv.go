// Package conv provides checked integer conversions for automaton sizes.
//
// State counts are ints while state IDs and sparse set members are uint32.
// The conversions panic on overflow: the compiler's state limit keeps real
// automata far below it, so overflow is a programming error.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
func IntToUint32(n int) uint32 {
	// Compare as uint so 32-bit platforms never overflow the constant.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

package incregex

import (
	"strings"
	"testing"

	"github.com/coregx/incregex/pattern"
)

// BenchmarkClassify_Keystrokes classifies every prefix of a value, as a
// field does while it is typed.
func BenchmarkClassify_Keystrokes(b *testing.B) {
	benchmarks := []struct {
		name    string
		literal string
		value   string
	}{
		{"passport", usPassport, "A12345678"},
		{"email", `/^[^@\s]+@[^@\s]+\.[a-z]{2,}$/`, "jane.doe@example.org"},
		{"zip", `/^[0-9]{5}(?:-[0-9]{4})?$/`, "12345-6789"},
	}
	for _, bm := range benchmarks {
		m := MustCompile(bm.literal)
		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				for i := 1; i <= len(bm.value); i++ {
					Classify(m, bm.value[:i])
				}
			}
		})
	}
}

// BenchmarkTruncate compares the single-pass truncation against extending
// one code point at a time.
func BenchmarkTruncate(b *testing.B) {
	m := MustCompile(`/^[a-z]{1,64}$/`)
	input := strings.Repeat("abcdefgh", 4) + "9" + strings.Repeat("x", 32)

	b.Run("single_pass", func(b *testing.B) {
		for b.Loop() {
			TruncateToValidPrefix(m, input)
		}
	})
	b.Run("per_code_point", func(b *testing.B) {
		q := queryOnly{m}
		for b.Loop() {
			TruncateToValidPrefix(q, input)
		}
	})
}

func BenchmarkValidator_Parallel(b *testing.B) {
	v, err := NewValidator(DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	p := pattern.MustParseLiteral(usPassport)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := v.Apply(p, ModeType, "A1234x5678"); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

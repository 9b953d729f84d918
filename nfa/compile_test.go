package nfa

import (
	"errors"
	"testing"
	"unicode"

	"github.com/coregx/incregex/pattern"
)

func TestCompile_ClassExpansion(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		config     CompilerConfig
		wantEdges  int
		wantRanges int
	}{
		{"small class expanded", `[a-c]`, DefaultCompilerConfig(), 3, 0},
		{"digit class expanded", `\d`, DefaultCompilerConfig(), 10, 0},
		{"large class kept as range", `[a-z]`, CompilerConfig{MaxClassExpansion: 10}, 1, 1},
		{"negated class kept as ranges", `[^a]`, DefaultCompilerConfig(), 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewCompiler(tt.config).CompilePattern(tt.source, "")
			if err != nil {
				t.Fatalf("CompilePattern(%q) error: %v", tt.source, err)
			}
			edges, ranges := 0, 0
			for _, tr := range n.Transitions() {
				if tr.Epsilon {
					continue
				}
				edges++
				if tr.Lo != tr.Hi {
					ranges++
				}
			}
			if edges != tt.wantEdges {
				t.Errorf("symbol edges = %d, want %d", edges, tt.wantEdges)
			}
			if ranges != tt.wantRanges {
				t.Errorf("range edges = %d, want %d", ranges, tt.wantRanges)
			}
		})
	}
}

func TestCompile_SingleStartSingleAccept(t *testing.T) {
	for _, src := range []string{`a`, `a|b|c`, `(ab)*`, `x{2,5}`, `^$`, ``} {
		n := MustCompile(src, "")
		if got := n.AcceptStates(); len(got) != 1 {
			t.Errorf("%q: AcceptStates() = %v, want exactly one", src, got)
		}
		if n.Source() != src {
			t.Errorf("Source() = %q, want %q", n.Source(), src)
		}
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Run("nil node", func(t *testing.T) {
		_, err := NewDefaultCompiler().Compile(nil)
		if !errors.Is(err, ErrNilNode) {
			t.Errorf("error = %v, want ErrNilNode", err)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := Compile(`a(`, "")
		var pe *pattern.PatternSyntaxError
		if !errors.As(err, &pe) {
			t.Fatalf("error = %T %v, want *pattern.PatternSyntaxError", err, err)
		}
	})

	t.Run("bad flag", func(t *testing.T) {
		_, err := Compile(`a`, "x")
		if !errors.Is(err, pattern.ErrUnknownFlag) {
			t.Errorf("error = %v, want ErrUnknownFlag", err)
		}
	})

	t.Run("too many states", func(t *testing.T) {
		_, err := NewCompiler(CompilerConfig{MaxStates: 10}).CompilePattern(`a{50}`, "")
		if !errors.Is(err, ErrTooComplex) {
			t.Fatalf("error = %v, want ErrTooComplex", err)
		}
		var ce *CompileError
		if !errors.As(err, &ce) || ce.Pattern != `a{50}` {
			t.Errorf("CompileError pattern not recorded: %v", err)
		}
	})

	t.Run("too deep", func(t *testing.T) {
		_, err := NewCompiler(CompilerConfig{MaxRecursionDepth: 3}).CompilePattern(`((((a))))`, "")
		if !errors.Is(err, ErrTooComplex) {
			t.Errorf("error = %v, want ErrTooComplex", err)
		}
	})

	t.Run("inverted repeat", func(t *testing.T) {
		q := pattern.NewQuantifier(pattern.NewCharacter('a'), 3, 1)
		if _, err := NewDefaultCompiler().Compile(q); err == nil {
			t.Error("expected error for {3,1}")
		}
	})
}

func TestCompile_FromTree(t *testing.T) {
	// (a|b){2}c built by hand
	root := pattern.NewAlternative(
		pattern.NewQuantifier(
			pattern.NewGroup(pattern.NewDisjunction(
				pattern.NewCharacter('a'),
				pattern.NewCharacter('b'),
			)),
			2, 2,
		),
		pattern.NewCharacter('c'),
	)
	n, err := NewDefaultCompiler().Compile(root)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	for in, want := range map[string]bool{"abc": true, "bbc": true, "ac": false, "abac": false} {
		if got := n.Matches(in); got != want {
			t.Errorf("Matches(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCompiler_Reuse(t *testing.T) {
	c := NewDefaultCompiler()
	first, err := c.CompilePattern(`abc`, "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.CompilePattern(`x`, "")
	if err != nil {
		t.Fatal(err)
	}
	if !first.Matches("abc") || !second.Matches("x") || second.Matches("abc") {
		t.Error("compiling twice with one Compiler leaked state between NFAs")
	}
}

func TestComplement(t *testing.T) {
	tests := []struct {
		name string
		in   []pattern.Range
		want []pattern.Range
	}{
		{"empty", nil, []pattern.Range{{Lo: 0, Hi: unicode.MaxRune}}},
		{
			"unsorted overlapping",
			[]pattern.Range{{Lo: 'b', Hi: 'd'}, {Lo: 'a', Hi: 'a'}},
			[]pattern.Range{{Lo: 0, Hi: 'a' - 1}, {Lo: 'e', Hi: unicode.MaxRune}},
		},
		{"full", []pattern.Range{{Lo: 0, Hi: unicode.MaxRune}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := complement(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("complement = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("complement[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

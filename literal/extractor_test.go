package literal

import (
	"testing"

	"github.com/coregx/incregex/pattern"
)

func TestExtractRequired(t *testing.T) {
	tests := []struct {
		name         string
		source       string
		flags        string
		config       ExtractorConfig
		want         []string
		wantComplete bool
	}{
		{"plain literal", `hello`, "", DefaultConfig(), []string{"hello"}, true},
		{"anchored alternation", `^(?:yes|no)$`, "", DefaultConfig(), []string{"yes", "no"}, true},
		{"email shape", `^[^@\s]+@[^@\s]+$`, "", DefaultConfig(), []string{"@"}, false},
		{"phone separator", `^\d{3}-\d{4}$`, "", DefaultConfig(), []string{"-"}, false},
		{"no literal", `^(?:[A-Z][0-9]{8}|[0-9]{9}|[A-Z][0-9]{7})$`, "", DefaultConfig(), nil, false},
		{"optional prefix", `a?b`, "", DefaultConfig(), []string{"b", "ab"}, true},
		{"star", `(?:ab)*`, "", DefaultConfig(), nil, false},
		{"longest required wins", `x(?:ab)+y`, "", DefaultConfig(), []string{"ab"}, false},
		{"branch without literal", `foo|[0-9]+`, "", DefaultConfig(), nil, false},
		{"case folded", `abc`, "i", DefaultConfig(), nil, false},
		{"exact repeat", `a{3}`, "", DefaultConfig(), []string{"aaa"}, true},
		{"multibyte", `é`, "", DefaultConfig(), []string{"é"}, true},
		{"empty group breaks run", `a()b`, "", DefaultConfig(), []string{"a"}, false},
		{
			"class expanded when allowed", `[ab]c`, "",
			ExtractorConfig{MaxLiterals: 64, MaxLiteralLen: 64, MaxClassSize: 10},
			[]string{"ac", "bc"}, true,
		},
		{
			"too many alternatives", `(?:ab|cd|ef)`, "",
			ExtractorConfig{MaxLiterals: 2, MaxLiteralLen: 64},
			nil, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := pattern.Parse(tt.source, tt.flags)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.source, err)
			}
			seq := New(tt.config).ExtractRequired(root)
			if tt.want == nil {
				if seq != nil {
					t.Fatalf("ExtractRequired = %q, want nil", lits(seq))
				}
				return
			}
			if got := lits(seq); !equalStrings(got, tt.want) {
				t.Errorf("ExtractRequired = %q, want %q", got, tt.want)
			}
			if got := seq.IsComplete(); got != tt.wantComplete {
				t.Errorf("IsComplete() = %v, want %v", got, tt.wantComplete)
			}
		})
	}
}

func TestExtractRequired_Nil(t *testing.T) {
	if New(DefaultConfig()).ExtractRequired(nil) != nil {
		t.Error("nil root should extract nothing")
	}
}

func TestExtractRequired_DepthLimit(t *testing.T) {
	root := pattern.NewCharacter('a')
	for range 10 {
		root = pattern.NewGroup(root)
	}
	cfg := DefaultConfig()
	cfg.MaxDepth = 5
	if seq := New(cfg).ExtractRequired(root); seq != nil {
		t.Errorf("expected nothing past the depth limit, got %q", lits(seq))
	}
}

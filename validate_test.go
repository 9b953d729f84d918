package incregex

import (
	"testing"
)

const usPassport = `/^(?:[A-Z][0-9]{8}|[0-9]{9}|[A-Z][0-9]{7})$/`

// fieldPatterns are shapes used by real form fields.
var fieldPatterns = []string{
	usPassport,
	`/^[A-Z]{5}[0-9]{4}[A-Z]$/`,
	`/^[^@\s]+@[^@\s]+\.[a-z]{2,}$/`,
	`/^[0-9]{5}(?:-[0-9]{4})?$/`,
	`/^[2-9][0-9]{3} ?[0-9]{4} ?[0-9]{4}$/`,
	`/^a*b?$/`,
	`/^(?:yes|no)$/i`,
	`/^.{2,12}$/`,
	`/^\S+(?: \S+)*$/`,
	`/^[^\S\n]*\d+$/`,
}

var sampleInputs = []string{
	"", "A", "AB", "A1", "A1234567", "A12345678", "A123456789",
	"123456789", "1234567890", "ABCDE1234F", "ABCDE1234", "abcde1234f",
	"jane@example.org", "jane@", "jane.example.org", "a b@c.de",
	"12345", "12345-", "12345-6789", "12345-67890",
	"2345 6789 0123", "234567890123", "1234",
	"aaab", "ba", "YES", "n", "nope", "é", "\xff",
	"Jane Doe", "a\u2028b", "\u2028", "\u00a0", "a\u00a0b", "\u00a012", "\n12", "x\r",
}

func TestClassify_USPassport(t *testing.T) {
	m := MustCompile(usPassport)

	tests := []struct {
		input string
		want  Status
	}{
		{"A", PotentiallyValid},
		{"AB", Invalid},
		{"A12345678", Valid},
		{"123456789", Valid},
		{"A1234567", Valid},
		{"", PotentiallyValid},
		{"A123456789", Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Classify(m, tt.input); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncateToValidPrefix_USPassport(t *testing.T) {
	m := MustCompile(usPassport)

	tests := []struct {
		input, want string
	}{
		{"A123456789", "A12345678"},
		{"AB1234567", "A"},
		{"", ""},
		{"x", ""},
		{"1234567890", "123456789"},
		{"A12x45678", "A12"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := TruncateToValidPrefix(m, tt.input); got != tt.want {
				t.Errorf("TruncateToValidPrefix(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// queryOnly hides ValidPrefixLen so TruncateToValidPrefix takes the
// code-point-at-a-time path.
type queryOnly struct {
	m Matcher
}

func (q queryOnly) Matches(s string) bool           { return q.m.Matches(s) }
func (q queryOnly) CanPartiallyMatch(s string) bool { return q.m.CanPartiallyMatch(s) }

func TestTruncateToValidPrefix_SinglePassAgreesWithLoop(t *testing.T) {
	for _, lit := range fieldPatterns {
		m := MustCompile(lit)
		slow := queryOnly{m}
		for _, in := range sampleInputs {
			if fast, loop := TruncateToValidPrefix(m, in), TruncateToValidPrefix(slow, in); fast != loop {
				t.Errorf("%s: truncate(%q): single pass %q, loop %q", lit, in, fast, loop)
			}
		}
	}
}

func TestProperties(t *testing.T) {
	extensions := []string{"0", "9", "A", "z", "@", ".", "-", " ", "é"}

	for _, lit := range fieldPatterns {
		m := MustCompile(lit)
		t.Run(lit, func(t *testing.T) {
			if !m.CanPartiallyMatch("") {
				t.Error(`CanPartiallyMatch("") = false`)
			}

			for _, s := range sampleInputs {
				if m.Matches(s) && !m.CanPartiallyMatch(s) {
					t.Errorf("%q matches but cannot partially match", s)
				}

				if !m.CanPartiallyMatch(s) {
					for _, c := range extensions {
						if m.CanPartiallyMatch(s + c) {
							t.Errorf("dead prefix %q revived by %q", s, c)
						}
					}
				}

				tr := TruncateToValidPrefix(m, s)
				if len(tr) > len(s) || s[:len(tr)] != tr {
					t.Errorf("truncate(%q) = %q is not a prefix", s, tr)
				}
				if again := TruncateToValidPrefix(m, tr); again != tr {
					t.Errorf("truncate not idempotent on %q: %q then %q", s, tr, again)
				}
				if Classify(m, tr) == Invalid {
					t.Errorf("truncate(%q) = %q classifies Invalid", s, tr)
				}
			}
		})
	}
}

func TestMatches_EmptyInput(t *testing.T) {
	tests := []struct {
		lit  string
		want bool
	}{
		{`/^a*$/`, true},
		{`/^a+$/`, false},
		{`/^(?:x|)$/`, true},
		{usPassport, false},
	}
	for _, tt := range tests {
		if got := Matches(MustCompile(tt.lit), ""); got != tt.want {
			t.Errorf("%s: Matches(\"\") = %v, want %v", tt.lit, got, tt.want)
		}
	}
}

// both reports a full match and a live prefix for every input.
type both struct{}

func (both) Matches(string) bool           { return true }
func (both) CanPartiallyMatch(string) bool { return true }

func TestClassify_FullMatchWins(t *testing.T) {
	if got := Classify(both{}, "anything"); got != Valid {
		t.Errorf("Classify = %v, want Valid", got)
	}
	if got := Classify(MustCompile(`/^a*$/`), "aa"); got != Valid {
		t.Errorf("Classify(aa) = %v, want Valid", got)
	}
}

// TestApply_JavaScriptEscapes tests that typed input whose JavaScript
// reading of the pattern is a full match keeps its value and classifies
// Valid
func TestApply_JavaScriptEscapes(t *testing.T) {
	tests := []struct {
		lit   string
		input string
		want  Result
	}{
		{`/^\Qa.b\E$/`, "Qa.bE", Result{Value: "Qa.bE", Status: Valid}},
		{`/^[^\S]$/`, "\u00a0", Result{Value: "\u00a0", Status: Valid}},
		{`/^.$/`, "\u2028", Result{Value: "", Status: PotentiallyValid, Truncated: true}},
		{`/^[[:digit:]]$/`, "d]", Result{Value: "d]", Status: Valid}},
		{`/^[[:digit:]]$/`, "5", Result{Value: "", Status: PotentiallyValid, Truncated: true}},
	}
	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			m := MustCompile(tt.lit)
			if got := Apply(m, ModeType, tt.input); got != tt.want {
				t.Errorf("Apply(type, %q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if got := Classify(m, tt.want.Value); got != tt.want.Status {
				t.Errorf("Classify(%q) = %v, want %v", tt.want.Value, got, tt.want.Status)
			}
		})
	}
}

func TestApply(t *testing.T) {
	m := MustCompile(usPassport)

	tests := []struct {
		name  string
		mode  Mode
		input string
		want  Result
	}{
		{"type drops bad keystrokes", ModeType, "AB1234567", Result{Value: "A", Status: PotentiallyValid, Truncated: true}},
		{"type keeps overflow out", ModeType, "A123456789", Result{Value: "A12345678", Status: Valid, Truncated: true}},
		{"type complete", ModeType, "A12345678", Result{Value: "A12345678", Status: Valid}},
		{"paste keeps invalid text", ModePaste, "AB1234567", Result{Value: "AB1234567", Status: Invalid}},
		{"paste valid", ModePaste, "123456789", Result{Value: "123456789", Status: Valid}},
		{"paste partial", ModePaste, "1234", Result{Value: "1234", Status: PotentiallyValid}},
		{"unknown mode types", Mode(7), "AB", Result{Value: "A", Status: PotentiallyValid, Truncated: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(m, tt.mode, tt.input); got != tt.want {
				t.Errorf("Apply(%v, %q) = %+v, want %+v", tt.mode, tt.input, got, tt.want)
			}
		})
	}
}

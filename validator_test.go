package incregex

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/coregx/incregex/meta"
	"github.com/coregx/incregex/pattern"
)

func TestValidator(t *testing.T) {
	v, err := NewValidator(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	passport := pattern.MustParseLiteral(usPassport)

	status, err := v.Classify(passport, "A")
	if err != nil || status != PotentiallyValid {
		t.Errorf("Classify(A) = %v, %v", status, err)
	}
	got, err := v.TruncateToValidPrefix(passport, "AB1234567")
	if err != nil || got != "A" {
		t.Errorf("TruncateToValidPrefix = %q, %v", got, err)
	}
	ok, err := v.Matches(passport, "123456789")
	if err != nil || !ok {
		t.Errorf("Matches = %v, %v", ok, err)
	}
	res, err := v.Apply(passport, ModePaste, "AB")
	if err != nil || res.Status != Invalid || res.Value != "AB" {
		t.Errorf("Apply = %+v, %v", res, err)
	}

	if n := v.Len(); n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
	st := v.Stats()
	if st.Misses != 1 || st.Hits != 3 || st.Fallbacks != 0 {
		t.Errorf("Stats() = %+v", st)
	}

	m, err := v.Matcher(passport)
	if err != nil {
		t.Fatal(err)
	}
	if m.Pattern() != passport {
		t.Errorf("Matcher pattern = %v", m.Pattern())
	}
}

func TestValidator_PermissiveFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	v, err := NewValidator(DefaultConfig(), meta.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	broken := []pattern.Pattern{
		{Source: "([a-z]"},
		{Source: "[0-9"},
		{Source: "[a-z", Flags: "i"},
		{Source: "(?i)abc"},
	}

	for _, p := range broken {
		for _, in := range []string{"", "x", "zzz", "5", "anything at all"} {
			status, err := v.Classify(p, in)
			if err != nil {
				t.Fatalf("%v: Classify(%q) error: %v", p, in, err)
			}
			if status != PotentiallyValid {
				t.Errorf("%v: Classify(%q) = %v, want PotentiallyValid", p, in, status)
			}
			res, _ := v.Apply(p, ModeType, in)
			if res.Value != in || res.Truncated {
				t.Errorf("%v: Apply(%q) = %+v, want input kept", p, in, res)
			}
		}
	}

	if st := v.Stats(); st.Fallbacks != uint64(len(broken)) {
		t.Errorf("Fallbacks = %d, want %d", st.Fallbacks, len(broken))
	}
	if !strings.Contains(buf.String(), "accepting all input") {
		t.Errorf("fallback not logged: %s", buf.String())
	}
}

func TestValidator_Strict(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PermissiveFallback = false
	v, err := NewValidator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	broken := pattern.Pattern{Source: "([a-z]"}

	var perr *pattern.PatternSyntaxError
	if _, err := v.Classify(broken, "a"); !errors.As(err, &perr) {
		t.Errorf("Classify error = %v, want *PatternSyntaxError", err)
	}
	if _, err := v.TruncateToValidPrefix(broken, "a"); err == nil {
		t.Error("TruncateToValidPrefix succeeded")
	}
	if _, err := v.Matches(broken, "a"); err == nil {
		t.Error("Matches succeeded")
	}
	if _, err := v.Apply(broken, ModeType, "a"); err == nil {
		t.Error("Apply succeeded")
	}
	if v.Len() != 0 {
		t.Errorf("Len() = %d, want 0", v.Len())
	}
}

func TestNewValidator_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxStates = 1

	var cerr *meta.ConfigError
	if _, err := NewValidator(cfg); !errors.As(err, &cerr) {
		t.Errorf("NewValidator error = %v, want *meta.ConfigError", err)
	}
}

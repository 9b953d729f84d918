package pattern

import (
	"errors"
	"testing"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		lit     string
		want    Pattern
		wantErr error
	}{
		{"/^a$/i", Pattern{Source: "^a$", Flags: "i"}, nil},
		{"/a/b/g", Pattern{Source: "a/b", Flags: "g"}, nil},
		{"//", Pattern{}, nil},
		{"abc", Pattern{}, ErrNotLiteral},
		{"/abc", Pattern{}, ErrNotLiteral},
		{"/a/q", Pattern{}, ErrUnknownFlag},
	}

	for _, tt := range tests {
		t.Run(tt.lit, func(t *testing.T) {
			got, err := ParseLiteral(tt.lit)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			if got.String() != tt.lit {
				t.Errorf("String() = %q, want %q", got.String(), tt.lit)
			}
		})
	}
}

func TestMustParseLiteral_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParseLiteral("no slashes")
}

func TestFlags(t *testing.T) {
	f, err := ParseFlags("ig")
	if err != nil {
		t.Fatal(err)
	}
	if !f.Has(IgnoreCase) || !f.Has(Global) || f.Has(Multiline) {
		t.Errorf("flags = %v", f)
	}
	if f.String() != "gi" {
		t.Errorf("String() = %q, want canonical \"gi\"", f.String())
	}
	if got := (Pattern{Source: "x", Flags: "ig"}).Canonical(); got.Flags != "gi" {
		t.Errorf("Canonical().Flags = %q", got.Flags)
	}
	if got := (Pattern{Source: "x", Flags: "zz"}).Canonical(); got.Flags != "zz" {
		t.Errorf("Canonical() rewrote invalid flags to %q", got.Flags)
	}
	if _, err := ParseFlags("dgimsuy"); err != nil {
		t.Errorf("all flags: %v", err)
	}
}

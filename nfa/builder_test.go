package nfa

import (
	"errors"
	"testing"
)

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder()
	s0 := b.AddState()
	s1 := b.AddState()
	s2 := b.AddState()
	b.AddEpsilon(s0, s1)
	b.AddSymbol(s1, s2, 'a')
	b.AddRange(s1, s2, '0', '9')
	b.SetStart(s0)
	b.AddAccept(s2)
	b.AddAccept(s2)

	n, err := b.Build(WithSource("a|[0-9]"))
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	if n.States() != 3 {
		t.Errorf("States() = %d, want 3", n.States())
	}
	if n.Start() != s0 {
		t.Errorf("Start() = %d, want %d", n.Start(), s0)
	}
	if got := n.AcceptStates(); len(got) != 1 || got[0] != s2 {
		t.Errorf("AcceptStates() = %v, want [%d]", got, s2)
	}
	if !n.IsAccept(s2) || n.IsAccept(s0) || n.IsAccept(InvalidState) {
		t.Error("IsAccept reports wrong states")
	}
	if got := len(n.Transitions()); got != 3 {
		t.Errorf("len(Transitions()) = %d, want 3", got)
	}
	if n.Source() != "a|[0-9]" {
		t.Errorf("Source() = %q", n.Source())
	}
}

func TestBuilder_Validate(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(b *Builder)
		wantStateErr bool
	}{
		{
			name:  "start not set",
			setup: func(b *Builder) { b.AddState() },
		},
		{
			name: "start out of bounds",
			setup: func(b *Builder) {
				b.AddState()
				b.SetStart(5)
			},
			wantStateErr: true,
		},
		{
			name: "accept out of bounds",
			setup: func(b *Builder) {
				b.SetStart(b.AddState())
				b.AddAccept(9)
			},
			wantStateErr: true,
		},
		{
			name: "transition target out of bounds",
			setup: func(b *Builder) {
				s := b.AddState()
				b.SetStart(s)
				b.AddEpsilon(s, 3)
			},
			wantStateErr: true,
		},
		{
			name: "empty range",
			setup: func(b *Builder) {
				s := b.AddState()
				b.SetStart(s)
				b.AddRange(s, s, 'z', 'a')
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			tt.setup(b)
			err := b.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			var be *BuildError
			if !errors.As(err, &be) {
				t.Fatalf("error type = %T, want *BuildError", err)
			}
			if got := errors.Is(err, ErrInvalidState); got != tt.wantStateErr {
				t.Errorf("errors.Is(err, ErrInvalidState) = %v, want %v", got, tt.wantStateErr)
			}
			if _, err := b.Build(); err == nil {
				t.Error("Build should fail when Validate fails")
			}
		})
	}
}

func TestTransition_String(t *testing.T) {
	tests := []struct {
		tr   Transition
		want string
	}{
		{Transition{From: 0, To: 1, Epsilon: true}, "0 -ε-> 1"},
		{Transition{From: 1, To: 2, Lo: 'a', Hi: 'a'}, "1 -'a'-> 2"},
		{Transition{From: 2, To: 3, Lo: 'a', Hi: 'z'}, "2 -['a'-'z']-> 3"},
	}
	for _, tt := range tests {
		if got := tt.tr.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	eps := Transition{Epsilon: true, Lo: 0, Hi: 0x10FFFF}
	if eps.Accepts('a') {
		t.Error("epsilon edge must not consume input")
	}
}

package providers

import (
	"errors"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry("a", " b ", "c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reg.Len() != 3 {
		t.Fatalf("expected 3 providers, got %d", reg.Len())
	}

	for i, want := range []string{"a", "b", "c"} {
		p, ok := reg.At(i)
		if !ok {
			t.Fatalf("expected provider at rank %d", i)
		}
		if p.ID != want || p.Rank != i {
			t.Errorf("rank %d: expected %q, got %+v", i, want, p)
		}
	}

	if _, ok := reg.At(3); ok {
		t.Error("expected At(3) to be out of range")
	}
	if _, ok := reg.At(-1); ok {
		t.Error("expected At(-1) to be out of range")
	}
}

func TestNewRegistry_Invalid(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
	}{
		{"blank", []string{"a", "  "}},
		{"duplicate", []string{"a", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.ids...)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestRegistry_Empty(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("empty registry should build, got %v", err)
	}
	if reg.Len() != 0 {
		t.Errorf("expected empty registry, got %d", reg.Len())
	}

	var nilReg *Registry
	if nilReg.Len() != 0 || nilReg.IDs() != nil {
		t.Error("nil registry should behave as empty")
	}
}

func TestRegistry_CopiesAreIndependent(t *testing.T) {
	reg := MustRegistry("a", "b")

	ids := reg.IDs()
	ids[0] = "mutated"
	list := reg.Providers()
	list[1].ID = "mutated"

	if got := reg.IDs(); got[0] != "a" || got[1] != "b" {
		t.Errorf("registry mutated through returned slices: %v", got)
	}
}

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"user", RoleUser, true},
		{"assistant", RoleAssistant, true},
		{"model", RoleAssistant, true},
		{"Model", RoleAssistant, true},
		{"system", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeRole(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NormalizeRole(%q) = (%q, %v), expected (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEnvelope_ForProvider(t *testing.T) {
	msgs := []Message{{Role: RoleUser, Content: "q"}}
	env := NewEnvelope(msgs, 0.7)
	msgs[0].Content = "changed"

	req := env.ForProvider("x")
	if req.Model != "x" || req.Temperature != 0.7 {
		t.Errorf("unexpected request %+v", req)
	}
	if req.Messages[0].Content != "q" {
		t.Errorf("envelope should own its messages, got %q", req.Messages[0].Content)
	}

	req.Messages[0].Content = "again"
	if env.Messages[0].Content != "q" {
		t.Error("wire request must not alias envelope messages")
	}
}

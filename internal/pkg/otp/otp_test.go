package otp

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewNumeric_Bounds(t *testing.T) {
	for _, d := range []int{0, -1, 19} {
		if _, err := NewNumeric(d); !errors.Is(err, ErrInvalidDigits) {
			t.Errorf("NewNumeric(%d) error = %v, want ErrInvalidDigits", d, err)
		}
	}
	for _, d := range []int{1, 6, 18} {
		g, err := NewNumeric(d)
		if err != nil {
			t.Fatalf("NewNumeric(%d) error = %v", d, err)
		}
		if g.Digits() != d {
			t.Errorf("Digits() = %d, want %d", g.Digits(), d)
		}
	}
}

func TestNumeric_Generate(t *testing.T) {
	g, err := NewNumeric(6)
	if err != nil {
		t.Fatalf("NewNumeric: %v", err)
	}

	seen := make(map[string]struct{})
	for range 200 {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("len(%q) = %d, want 6", code, len(code))
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("code %q has non-digit %q", code, c)
			}
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 150 {
		t.Errorf("only %d distinct codes out of 200", len(seen))
	}
}

func TestNumeric_GenerateZeroPadded(t *testing.T) {
	// an all-zero source makes rand.Int return 0
	g, err := newNumeric(6, bytes.NewReader(make([]byte, 64)))
	if err != nil {
		t.Fatalf("newNumeric: %v", err)
	}

	code, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if code != "000000" {
		t.Errorf("Generate() = %q, want 000000", code)
	}
}

func TestNumeric_GenerateSourceFailure(t *testing.T) {
	g, err := newNumeric(6, bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("newNumeric: %v", err)
	}
	if _, err := g.Generate(); err == nil {
		t.Error("Generate() error = nil, want read failure")
	}
}

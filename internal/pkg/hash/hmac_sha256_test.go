package hash

import "testing"

func TestHMACSHA256(t *testing.T) {
	h := NewHMACSHA256("secret")

	sum, err := h.Hash("482913")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if len(sum) != 64 {
		t.Fatalf("len(Hash()) = %d, want 64 hex chars", len(sum))
	}

	if !h.Verify(string(sum), "482913") {
		t.Error("Verify() = false for matching input")
	}
	if h.Verify(string(sum), "482914") {
		t.Error("Verify() = true for different input")
	}
	if NewHMACSHA256("other").Verify(string(sum), "482913") {
		t.Error("Verify() = true under a different secret")
	}
}

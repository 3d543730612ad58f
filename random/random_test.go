package random

import (
	"strings"
	"testing"
)

func TestStringSecure(t *testing.T) {
	s, err := StringSecure(32)
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 32 {
		t.Fatalf("expected length 32, got %d", len(s))
	}
	for _, r := range s {
		if !strings.ContainsRune(charset, r) {
			t.Fatalf("unexpected character %q", r)
		}
	}

	other, err := StringSecure(32)
	if err != nil {
		t.Fatal(err)
	}
	if s == other {
		t.Fatal("two secure strings should not collide")
	}
}

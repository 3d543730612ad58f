package order

import (
	"testing"

	"github.com/irsalhamdi/orderly/validate"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{Pending, Processing, Shipped, Delivered, Cancelled} {
		got, err := ParseStatus(string(s))
		if err != nil {
			t.Fatalf("status %s: unexpected error %v", s, err)
		}
		if got != s {
			t.Fatalf("expected %s, got %s", s, got)
		}
	}

	for _, s := range []string{"", "processing", "REFUNDED"} {
		if _, err := ParseStatus(s); err == nil {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestStatusUpValidation(t *testing.T) {
	if err := validate.Check(StatusUp{Status: "SHIPPED"}); err != nil {
		t.Fatalf("expected SHIPPED to validate, got %v", err)
	}
	if err := validate.Check(StatusUp{Status: "LOST"}); err == nil {
		t.Fatal("expected an unknown status to fail validation")
	}
	if err := validate.Check(StatusUp{}); err == nil {
		t.Fatal("expected a missing status to fail validation")
	}
}

package weberr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResponseThroughWrapping(t *testing.T) {
	base := errors.New("cart is empty")
	err := fmt.Errorf("checkout: %w", Unprocessable(base, "cart has no items", WithFields(map[string]interface{}{
		"cart_id": "c1",
	})))

	body, status, ok := Response(err)
	if !ok {
		t.Fatal("expected a response to be attached")
	}
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, status)
	}
	if diff := cmp.Diff(&ErrorResponse{Error: "cart has no items"}, body); diff != "" {
		t.Fatalf("unexpected body (-want +got):\n%s", diff)
	}

	fields, ok := Fields(err)
	if !ok {
		t.Fatal("expected fields to be attached")
	}
	if fields["cart_id"] != "c1" {
		t.Fatalf("expected cart_id field, got %v", fields)
	}

	if !errors.Is(err, base) {
		t.Fatal("expected the original error to stay reachable")
	}
}

func TestResponseMissing(t *testing.T) {
	if _, _, ok := Response(errors.New("plain")); ok {
		t.Fatal("plain errors carry no response")
	}
}

func TestFieldsMergeLayers(t *testing.T) {
	err := Wrap(errors.New("out of stock"),
		WithFields(map[string]interface{}{"cart_id": "c1", "product_id": "inner"}),
		WithFields(map[string]interface{}{"product_id": "p1"}),
	)

	fields, ok := Fields(fmt.Errorf("checkout: %w", err))
	if !ok {
		t.Fatal("expected fields")
	}

	want := map[string]interface{}{"cart_id": "c1", "product_id": "p1"}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("unexpected fields (-want +got):\n%s", diff)
	}
}

package validate

import (
	"testing"

	"github.com/shopspring/decimal"
)

type priced struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
	Qty   int             `json:"quantity" validate:"gte=1"`
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		val   priced
		valid bool
	}{
		{"valid", priced{Name: "mug", Price: decimal.NewFromInt(10), Qty: 1}, true},
		{"zero price", priced{Name: "free", Price: decimal.Zero, Qty: 1}, true},
		{"negative price", priced{Name: "mug", Price: decimal.NewFromInt(-1), Qty: 1}, false},
		{"zero quantity", priced{Name: "mug", Price: decimal.NewFromInt(1), Qty: 0}, false},
		{"missing name", priced{Price: decimal.NewFromInt(1), Qty: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.val)
			if tt.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestCheckID(t *testing.T) {
	if err := CheckID(GenerateID()); err != nil {
		t.Fatalf("generated id should be valid: %v", err)
	}
	if err := CheckID("not-a-uuid"); err == nil {
		t.Fatal("expected malformed id to be rejected")
	}
}

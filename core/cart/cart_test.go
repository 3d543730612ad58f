package cart

import (
	"encoding/json"
	"testing"

	"github.com/irsalhamdi/orderly/validate"
	"github.com/shopspring/decimal"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		want  string
	}{
		{"empty", nil, "0"},
		{"single line", []Item{{Quantity: 2, UnitPrice: decimal.NewFromInt(10)}}, "20"},
		{
			"several lines",
			[]Item{
				{Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
				{Quantity: 1, UnitPrice: decimal.NewFromInt(20)},
				{Quantity: 3, UnitPrice: decimal.RequireFromString("0.35")},
			},
			"41.05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Cart{Items: tt.items}
			want := decimal.RequireFromString(tt.want)
			if got := c.Total(); !got.Equal(want) {
				t.Fatalf("expected total %s, got %s", want, got)
			}
		})
	}
}

func TestMarshalIncludesTotal(t *testing.T) {
	c := Cart{
		ID:     "c1",
		UserID: "u1",
		Items: []Item{
			{ProductID: "a", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
			{ProductID: "b", Quantity: 1, UnitPrice: decimal.NewFromInt(20)},
		},
	}

	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got struct {
		ID    string          `json:"id"`
		Total decimal.Decimal `json:"total"`
		Items []Item          `json:"items"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.ID != "c1" {
		t.Fatalf("expected id c1, got %q", got.ID)
	}
	if !got.Total.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected total 40, got %s", got.Total)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
}

func TestEmptyErrorMessage(t *testing.T) {
	err := &EmptyError{CartID: "c1"}
	if err.Error() != "cart[c1] has no items" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	none := &EmptyError{}
	if none.Error() != "cart has no items" {
		t.Fatalf("unexpected message %q", none.Error())
	}
}

func TestQuantityBounds(t *testing.T) {
	qty := func(n int) *int { return &n }

	tests := []struct {
		name  string
		in    any
		valid bool
	}{
		{"add one", ItemNew{Quantity: 1}, true},
		{"add at limit", ItemNew{Quantity: MaxQuantity}, true},
		{"add zero", ItemNew{Quantity: 0}, false},
		{"add past limit", ItemNew{Quantity: MaxQuantity + 1}, false},
		{"add past int32", ItemNew{Quantity: 3000000000}, false},
		{"update at limit", ItemUp{Quantity: qty(MaxQuantity)}, true},
		{"update to zero", ItemUp{Quantity: qty(0)}, true},
		{"update negative", ItemUp{Quantity: qty(-2)}, true},
		{"update past limit", ItemUp{Quantity: qty(MaxQuantity + 1)}, false},
		{"update missing", ItemUp{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Check(tt.in)
			if tt.valid && err != nil {
				t.Fatalf("expected valid input, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Fatal("expected input to be rejected")
			}
		})
	}
}

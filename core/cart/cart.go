package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity caps the quantity of a single cart line.
const MaxQuantity = 10000

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrQuantityLimit   = fmt.Errorf("quantity of a cart line cannot exceed %d", MaxQuantity)
)

// EmptyError is returned when a cart without items is checked out. CartID is
// empty when the user has no cart at all.
type EmptyError struct {
	CartID string
}

func (e *EmptyError) Error() string {
	if e.CartID == "" {
		return "cart has no items"
	}
	return fmt.Sprintf("cart[%s] has no items", e.CartID)
}

type Cart struct {
	ID        string    `json:"id" db:"cart_id"`
	UserID    string    `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	Items     []Item    `json:"items" db:"-"`
}

// Total is the sum of the line totals. It is never stored.
func (c Cart) Total() decimal.Decimal {
	tot := decimal.Zero
	for _, it := range c.Items {
		tot = tot.Add(it.Total())
	}
	return tot
}

func (c Cart) MarshalJSON() ([]byte, error) {
	type cart Cart
	return json.Marshal(struct {
		cart
		Total decimal.Decimal `json:"total"`
	}{cart(c), c.Total()})
}

type Item struct {
	ID        string          `json:"id" db:"cart_item_id"`
	CartID    string          `json:"cartId" db:"cart_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

func (it Item) Total() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

type ItemNew struct {
	Quantity int `json:"quantity" validate:"gte=1,lte=10000"`
}

type ItemUp struct {
	Quantity *int `json:"quantity" validate:"required,lte=10000"`
}

package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

// Orders are created in Processing. Delivered and Cancelled are terminal by
// convention only: any status may be set to any other.
const (
	Pending    Status = "PENDING"
	Processing Status = "PROCESSING"
	Shipped    Status = "SHIPPED"
	Delivered  Status = "DELIVERED"
	Cancelled  Status = "CANCELLED"
)

var statuses = map[Status]bool{
	Pending:    true,
	Processing: true,
	Shipped:    true,
	Delivered:  true,
	Cancelled:  true,
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !statuses[st] {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

type Order struct {
	ID        string          `json:"id" db:"order_id"`
	UserID    string          `json:"userId" db:"user_id"`
	Status    Status          `json:"status" db:"status"`
	Total     decimal.Decimal `json:"total" db:"total"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
	Items     []Item          `json:"items" db:"-"`
}

type StatusUp struct {
	Status string `json:"status" validate:"required,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
}

type Item struct {
	ID        string          `json:"id" db:"order_item_id"`
	OrderID   string          `json:"orderId" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

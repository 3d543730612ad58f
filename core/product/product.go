package product

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrVersionConflict is returned by Update when the product changed since it
// was read.
var ErrVersionConflict = errors.New("product was modified concurrently")

// OutOfStockError reports that a product holds less stock than requested.
type OutOfStockError struct {
	ProductID string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product[%s] is out of stock", e.ProductID)
}

type Product struct {
	ID          string          `json:"id" db:"product_id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Brand       string          `json:"brand" db:"brand"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
	Version     int             `json:"-" db:"version"`
}

type ProductNew struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

type ProductUp struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Brand       *string          `json:"brand"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
}

// Apply copies the set fields of up onto p.
func (up ProductUp) Apply(p *Product) error {
	if up.Name != nil {
		p.Name = *up.Name
	}
	if up.Description != nil {
		p.Description = *up.Description
	}
	if up.Brand != nil {
		p.Brand = *up.Brand
	}
	if up.Price != nil {
		if up.Price.IsNegative() {
			return errors.New("price must be 0 or greater")
		}
		p.Price = *up.Price
	}
	if up.Stock != nil {
		p.Stock = *up.Stock
	}
	return nil
}

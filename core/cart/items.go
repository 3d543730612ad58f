package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/orderly/core/claims"
	"github.com/irsalhamdi/orderly/core/product"
	"github.com/irsalhamdi/orderly/database"
	"github.com/irsalhamdi/orderly/validate"
	"github.com/jmoiron/sqlx"
)

// The functions below act on a cart on behalf of the caller found in ctx:
// they fail with claims.ErrForbidden unless the caller owns the cart or is an
// administrator.

func Show(ctx context.Context, db sqlx.QueryerContext, cartID string) (Cart, error) {
	c, err := Fetch(ctx, db, cartID)
	if err != nil {
		return Cart{}, err
	}

	if err := claims.Authorize(ctx, c.UserID); err != nil {
		return Cart{}, err
	}

	return c, nil
}

func ShowItem(ctx context.Context, db sqlx.QueryerContext, cartID, productID string) (Item, error) {
	if _, err := Show(ctx, db, cartID); err != nil {
		return Item{}, err
	}

	return FetchItem(ctx, db, cartID, productID)
}

// AddItem puts quantity units of the product in the cart. A product already
// in the cart has its quantity increased and keeps the unit price captured
// when it was first added. Stock is not checked here.
func AddItem(ctx context.Context, db *sqlx.DB, cartID, productID string, quantity int) (Item, error) {
	if quantity < 1 {
		return Item{}, ErrInvalidQuantity
	}
	if quantity > MaxQuantity {
		return Item{}, ErrQuantityLimit
	}

	var it Item
	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		if err := lock(ctx, tx, cartID); err != nil {
			return err
		}

		p, err := product.Fetch(ctx, tx, productID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		it, err = MergeItem(ctx, tx, Item{
			ID:        validate.GenerateID(),
			CartID:    cartID,
			ProductID: p.ID,
			Quantity:  quantity,
			UnitPrice: p.Price,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		return Touch(ctx, tx, cartID, now)
	})
	if err != nil {
		return Item{}, fmt.Errorf("adding product[%s] to cart[%s]: %w", productID, cartID, err)
	}

	return it, nil
}

// SetItemQuantity sets the line's quantity to an absolute value. A quantity
// of zero or less removes the line, reported by removed. Quantities above
// MaxQuantity fail with ErrQuantityLimit.
func SetItemQuantity(ctx context.Context, db *sqlx.DB, cartID, productID string, quantity int) (it Item, removed bool, err error) {
	if quantity > MaxQuantity {
		return Item{}, false, ErrQuantityLimit
	}

	err = database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		if err := lock(ctx, tx, cartID); err != nil {
			return err
		}

		now := time.Now().UTC()
		if quantity <= 0 {
			if err := DeleteItem(ctx, tx, cartID, productID); err != nil {
				return err
			}
			removed = true
		} else {
			up, err := UpdateItemQuantity(ctx, tx, cartID, productID, quantity, now)
			if err != nil {
				return err
			}
			it = up
		}

		return Touch(ctx, tx, cartID, now)
	})
	if err != nil {
		return Item{}, false, fmt.Errorf("setting quantity of product[%s] in cart[%s]: %w", productID, cartID, err)
	}

	return it, removed, nil
}

func RemoveItem(ctx context.Context, db *sqlx.DB, cartID, productID string) error {
	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		if err := lock(ctx, tx, cartID); err != nil {
			return err
		}

		if err := DeleteItem(ctx, tx, cartID, productID); err != nil {
			return err
		}

		return Touch(ctx, tx, cartID, time.Now().UTC())
	})
	if err != nil {
		return fmt.Errorf("removing product[%s] from cart[%s]: %w", productID, cartID, err)
	}

	return nil
}

func Clear(ctx context.Context, db *sqlx.DB, cartID string) (Cart, error) {
	var c Cart
	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		if err := lock(ctx, tx, cartID); err != nil {
			return err
		}

		if err := DeleteItems(ctx, tx, cartID); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := Touch(ctx, tx, cartID, now); err != nil {
			return err
		}

		var err error
		c, err = Fetch(ctx, tx, cartID)
		return err
	})
	if err != nil {
		return Cart{}, fmt.Errorf("clearing cart[%s]: %w", cartID, err)
	}

	return c, nil
}

func lock(ctx context.Context, tx sqlx.ExtContext, cartID string) error {
	c, err := FetchForUpdate(ctx, tx, cartID)
	if err != nil {
		return err
	}

	return claims.Authorize(ctx, c.UserID)
}

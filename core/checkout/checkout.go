package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/orderly/core/cart"
	"github.com/irsalhamdi/orderly/core/claims"
	"github.com/irsalhamdi/orderly/core/order"
	"github.com/irsalhamdi/orderly/core/product"
	"github.com/irsalhamdi/orderly/database"
	"github.com/irsalhamdi/orderly/validate"
	"github.com/jmoiron/sqlx"
)

// Checkout turns the cart into an order on behalf of the caller in ctx.
//
// Inside one transaction it locks the cart, takes the stock of every line,
// writes the order with its items and empties the cart. Any failure rolls the
// whole attempt back: stock, cart and orders are left as they were.
func Checkout(ctx context.Context, db *sqlx.DB, cartID string) (order.Order, error) {
	var ord order.Order

	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		c, err := cart.FetchForUpdate(ctx, tx, cartID)
		if err != nil {
			return err
		}

		if err := claims.Authorize(ctx, c.UserID); err != nil {
			return err
		}

		if len(c.Items) == 0 {
			return &cart.EmptyError{CartID: c.ID}
		}

		// Items come ordered by product id, so concurrent checkouts lock
		// shared product rows in the same order.
		for _, it := range c.Items {
			if _, err := product.DecreaseStock(ctx, tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		ord = newOrder(c, now)

		if err := order.Create(ctx, tx, ord); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}

		if err := cart.DeleteItems(ctx, tx, c.ID); err != nil {
			return fmt.Errorf("flushing cart: %w", err)
		}

		return cart.Touch(ctx, tx, c.ID, now)
	})
	if err != nil {
		return order.Order{}, fmt.Errorf("checking out cart[%s]: %w", cartID, err)
	}

	return ord, nil
}

// CheckoutUser checks out the cart owned by userID. A user without a cart
// gets a *cart.EmptyError and no cart is created.
func CheckoutUser(ctx context.Context, db *sqlx.DB, userID string) (order.Order, error) {
	c, err := cart.FetchByUser(ctx, db, userID)
	if err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return order.Order{}, &cart.EmptyError{}
		}
		return order.Order{}, fmt.Errorf("fetching cart of user[%s]: %w", userID, err)
	}

	return Checkout(ctx, db, c.ID)
}

// newOrder snapshots the cart into a processing order.
func newOrder(c cart.Cart, now time.Time) order.Order {
	ord := order.Order{
		ID:        validate.GenerateID(),
		UserID:    c.UserID,
		Status:    order.Processing,
		Total:     c.Total(),
		CreatedAt: now,
		UpdatedAt: now,
		Items:     make([]order.Item, 0, len(c.Items)),
	}

	for _, it := range c.Items {
		ord.Items = append(ord.Items, order.Item{
			ID:        validate.GenerateID(),
			OrderID:   ord.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
			CreatedAt: now,
		})
	}

	return ord
}

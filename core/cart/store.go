package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/orderly/database"
	"github.com/irsalhamdi/orderly/validate"
	"github.com/jmoiron/sqlx"
)

const itemColumns = `cart_item_id, cart_id, product_id, quantity, unit_price, created_at, updated_at`

// FetchOrCreate returns the cart of userID, creating an empty one first if
// the user has none. Concurrent callers all end up with the same cart.
func FetchOrCreate(ctx context.Context, db sqlx.ExtContext, userID string) (Cart, error) {
	const q = `
	INSERT INTO carts (cart_id, user_id, created_at, updated_at)
	VALUES ($1, $2, $3, $3)
	ON CONFLICT (user_id) DO NOTHING`

	if _, err := db.ExecContext(ctx, q, validate.GenerateID(), userID, time.Now().UTC()); err != nil {
		return Cart{}, fmt.Errorf("inserting cart for user[%s]: %w", userID, database.Err(err))
	}

	return FetchByUser(ctx, db, userID)
}

func FetchByUser(ctx context.Context, db sqlx.QueryerContext, userID string) (Cart, error) {
	const q = `SELECT cart_id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`

	var c Cart
	if err := sqlx.GetContext(ctx, db, &c, q, userID); err != nil {
		return Cart{}, fmt.Errorf("selecting cart of user[%s]: %w", userID, database.Err(err))
	}

	return withItems(ctx, db, c)
}

func Fetch(ctx context.Context, db sqlx.QueryerContext, cartID string) (Cart, error) {
	const q = `SELECT cart_id, user_id, created_at, updated_at FROM carts WHERE cart_id = $1`

	var c Cart
	if err := sqlx.GetContext(ctx, db, &c, q, cartID); err != nil {
		return Cart{}, fmt.Errorf("selecting cart[%s]: %w", cartID, database.Err(err))
	}

	return withItems(ctx, db, c)
}

// FetchForUpdate loads the cart and locks its row until the transaction
// ends. Every mutation of a cart's items goes through this lock.
func FetchForUpdate(ctx context.Context, tx sqlx.ExtContext, cartID string) (Cart, error) {
	const q = `SELECT cart_id, user_id, created_at, updated_at FROM carts WHERE cart_id = $1 FOR UPDATE`

	var c Cart
	if err := sqlx.GetContext(ctx, tx, &c, q, cartID); err != nil {
		return Cart{}, fmt.Errorf("locking cart[%s]: %w", cartID, database.Err(err))
	}

	return withItems(ctx, tx, c)
}

func withItems(ctx context.Context, db sqlx.QueryerContext, c Cart) (Cart, error) {
	items, err := FetchItems(ctx, db, c.ID)
	if err != nil {
		return Cart{}, err
	}
	c.Items = items
	return c, nil
}

// FetchItems returns the cart's lines ordered by product id.
func FetchItems(ctx context.Context, db sqlx.QueryerContext, cartID string) ([]Item, error) {
	q := `SELECT ` + itemColumns + ` FROM cart_items WHERE cart_id = $1 ORDER BY product_id`

	items := []Item{}
	if err := sqlx.SelectContext(ctx, db, &items, q, cartID); err != nil {
		return nil, fmt.Errorf("selecting items of cart[%s]: %w", cartID, err)
	}

	return items, nil
}

func FetchItem(ctx context.Context, db sqlx.QueryerContext, cartID, productID string) (Item, error) {
	q := `SELECT ` + itemColumns + ` FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	var it Item
	if err := sqlx.GetContext(ctx, db, &it, q, cartID, productID); err != nil {
		return Item{}, fmt.Errorf("selecting item[%s] of cart[%s]: %w", productID, cartID, database.Err(err))
	}

	return it, nil
}

// MergeItem inserts the line or, when the product is already in the cart,
// adds to its quantity. The unit price of an existing line is kept. A merge
// that would push the line past MaxQuantity fails with ErrQuantityLimit and
// leaves the line unchanged.
func MergeItem(ctx context.Context, tx sqlx.ExtContext, it Item) (Item, error) {
	q := `
	INSERT INTO cart_items
		(cart_item_id, cart_id, product_id, quantity, unit_price, created_at, updated_at)
	VALUES
		($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (cart_id, product_id) DO UPDATE SET
		quantity = cart_items.quantity + EXCLUDED.quantity,
		updated_at = EXCLUDED.updated_at
	WHERE cart_items.quantity + EXCLUDED.quantity <= $8
	RETURNING ` + itemColumns

	var out Item
	err := sqlx.GetContext(ctx, tx, &out, q,
		it.ID, it.CartID, it.ProductID, it.Quantity, it.UnitPrice, it.CreatedAt, it.UpdatedAt, MaxQuantity)
	if err != nil {
		err = database.Err(err)
		if errors.Is(err, database.ErrDBNotFound) {
			err = ErrQuantityLimit
		}
		return Item{}, fmt.Errorf("merging item[%s] into cart[%s]: %w", it.ProductID, it.CartID, err)
	}

	return out, nil
}

func UpdateItemQuantity(ctx context.Context, tx sqlx.ExtContext, cartID, productID string, quantity int, now time.Time) (Item, error) {
	q := `
	UPDATE cart_items SET quantity = $3, updated_at = $4
	WHERE cart_id = $1 AND product_id = $2
	RETURNING ` + itemColumns

	var out Item
	if err := sqlx.GetContext(ctx, tx, &out, q, cartID, productID, quantity, now); err != nil {
		return Item{}, fmt.Errorf("updating item[%s] of cart[%s]: %w", productID, cartID, database.Err(err))
	}

	return out, nil
}

func DeleteItem(ctx context.Context, tx sqlx.ExtContext, cartID, productID string) error {
	const q = `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	res, err := tx.ExecContext(ctx, q, cartID, productID)
	if err != nil {
		return fmt.Errorf("deleting item[%s] of cart[%s]: %w", productID, cartID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item[%s] of cart[%s]: %w", productID, cartID, err)
	}
	if n == 0 {
		return fmt.Errorf("deleting item[%s] of cart[%s]: %w", productID, cartID, database.ErrDBNotFound)
	}

	return nil
}

// DeleteItems empties the cart. The cart itself is kept.
func DeleteItems(ctx context.Context, tx sqlx.ExtContext, cartID string) error {
	const q = `DELETE FROM cart_items WHERE cart_id = $1`

	if _, err := tx.ExecContext(ctx, q, cartID); err != nil {
		return fmt.Errorf("deleting items of cart[%s]: %w", cartID, err)
	}

	return nil
}

func Touch(ctx context.Context, tx sqlx.ExtContext, cartID string, now time.Time) error {
	const q = `UPDATE carts SET updated_at = $2 WHERE cart_id = $1`

	if _, err := tx.ExecContext(ctx, q, cartID, now); err != nil {
		return fmt.Errorf("touching cart[%s]: %w", cartID, err)
	}

	return nil
}

package order

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/orderly/database"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	orderColumns = `order_id, user_id, status, total, created_at, updated_at`
	itemColumns  = `order_item_id, order_id, product_id, quantity, price, created_at`
)

// Create inserts the order together with its items.
func Create(ctx context.Context, tx sqlx.ExtContext, ord Order) error {
	const q = `
	INSERT INTO orders
		(order_id, user_id, status, total, created_at, updated_at)
	VALUES
		(:order_id, :user_id, :status, :total, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, tx, q, ord); err != nil {
		return fmt.Errorf("inserting order: %w", database.Err(err))
	}

	for _, it := range ord.Items {
		if err := CreateItem(ctx, tx, it); err != nil {
			return err
		}
	}

	return nil
}

func CreateItem(ctx context.Context, tx sqlx.ExtContext, it Item) error {
	const q = `
	INSERT INTO order_items
		(order_item_id, order_id, product_id, quantity, price, created_at)
	VALUES
		(:order_item_id, :order_id, :product_id, :quantity, :price, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, tx, q, it); err != nil {
		return fmt.Errorf("inserting order item[%s]: %w", it.ProductID, database.Err(err))
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.QueryerContext, id string) (Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`

	var ord Order
	if err := sqlx.GetContext(ctx, db, &ord, q, id); err != nil {
		return Order{}, fmt.Errorf("selecting order[%s]: %w", id, database.Err(err))
	}

	ords, err := withItems(ctx, db, []Order{ord})
	if err != nil {
		return Order{}, err
	}

	return ords[0], nil
}

func FetchAll(ctx context.Context, db sqlx.QueryerContext) ([]Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at, order_id`

	ords := []Order{}
	if err := sqlx.SelectContext(ctx, db, &ords, q); err != nil {
		return nil, fmt.Errorf("selecting orders: %w", err)
	}

	return withItems(ctx, db, ords)
}

func FetchByUser(ctx context.Context, db sqlx.QueryerContext, userID string) ([]Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at, order_id`

	ords := []Order{}
	if err := sqlx.SelectContext(ctx, db, &ords, q, userID); err != nil {
		return nil, fmt.Errorf("selecting orders of user[%s]: %w", userID, err)
	}

	return withItems(ctx, db, ords)
}

func UpdateStatus(ctx context.Context, db sqlx.ExtContext, id string, status Status, now time.Time) (Order, error) {
	q := `
	UPDATE orders SET status = $2, updated_at = $3
	WHERE order_id = $1
	RETURNING ` + orderColumns

	var ord Order
	if err := sqlx.GetContext(ctx, db, &ord, q, id, status, now); err != nil {
		return Order{}, fmt.Errorf("updating status of order[%s]: %w", id, database.Err(err))
	}

	ords, err := withItems(ctx, db, []Order{ord})
	if err != nil {
		return Order{}, err
	}

	return ords[0], nil
}

// withItems loads the items of all ords with a single query.
func withItems(ctx context.Context, db sqlx.QueryerContext, ords []Order) ([]Order, error) {
	if len(ords) == 0 {
		return ords, nil
	}

	ids := make([]string, len(ords))
	idx := make(map[string]int, len(ords))
	for i, o := range ords {
		ids[i] = o.ID
		idx[o.ID] = i
		ords[i].Items = []Item{}
	}

	q := `SELECT ` + itemColumns + ` FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY product_id`

	var items []Item
	if err := sqlx.SelectContext(ctx, db, &items, q, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("selecting order items: %w", err)
	}

	for _, it := range items {
		i := idx[it.OrderID]
		ords[i].Items = append(ords[i].Items, it)
	}

	return ords, nil
}

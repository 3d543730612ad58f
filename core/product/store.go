package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/orderly/database"
	"github.com/jmoiron/sqlx"
)

const columns = `product_id, name, description, brand, price, stock, created_at, updated_at, version`

func Create(ctx context.Context, db sqlx.ExtContext, p Product) error {
	const q = `
	INSERT INTO products
		(product_id, name, description, brand, price, stock, created_at, updated_at, version)
	VALUES
		(:product_id, :name, :description, :brand, :price, :stock, :created_at, :updated_at, :version)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, p); err != nil {
		return fmt.Errorf("inserting product: %w", database.Err(err))
	}

	return nil
}

// Update writes p if its version still matches the stored one and bumps the
// version on success.
func Update(ctx context.Context, db sqlx.ExtContext, p Product) (Product, error) {
	const q = `
	UPDATE products SET
		name = $2, description = $3, brand = $4, price = $5, stock = $6,
		updated_at = $7, version = version + 1
	WHERE product_id = $1 AND version = $8
	RETURNING ` + columns

	var out Product
	err := sqlx.GetContext(ctx, db, &out, q,
		p.ID, p.Name, p.Description, p.Brand, p.Price, p.Stock, p.UpdatedAt, p.Version)
	if err != nil {
		if errors.Is(database.Err(err), database.ErrDBNotFound) {
			return Product{}, ErrVersionConflict
		}
		return Product{}, fmt.Errorf("updating product[%s]: %w", p.ID, err)
	}

	return out, nil
}

func Fetch(ctx context.Context, db sqlx.QueryerContext, id string) (Product, error) {
	q := `SELECT ` + columns + ` FROM products WHERE product_id = $1`

	var p Product
	if err := sqlx.GetContext(ctx, db, &p, q, id); err != nil {
		return Product{}, fmt.Errorf("selecting product[%s]: %w", id, database.Err(err))
	}

	return p, nil
}

func FetchAll(ctx context.Context, db sqlx.QueryerContext) ([]Product, error) {
	q := `SELECT ` + columns + ` FROM products ORDER BY name, product_id`

	ps := []Product{}
	if err := sqlx.SelectContext(ctx, db, &ps, q); err != nil {
		return nil, fmt.Errorf("selecting products: %w", err)
	}

	return ps, nil
}

// Delete removes the product. It fails with database.ErrDBReferenced while a
// cart or an order still holds the product.
func Delete(ctx context.Context, db sqlx.ExtContext, id string) error {
	const q = `DELETE FROM products WHERE product_id = $1`

	res, err := db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("deleting product[%s]: %w", id, database.Err(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting product[%s]: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("deleting product[%s]: %w", id, database.ErrDBNotFound)
	}

	return nil
}

// DecreaseStock removes quantity units from the product's stock. The check
// and the write are one conditional UPDATE, so the row lock Postgres takes
// for it serializes concurrent decrements of the same product until the
// surrounding transaction ends. No row is touched when stock is short.
func DecreaseStock(ctx context.Context, tx sqlx.ExtContext, id string, quantity int) (Product, error) {
	const q = `
	UPDATE products SET
		stock = stock - $2,
		updated_at = $3,
		version = version + 1
	WHERE product_id = $1 AND stock >= $2
	RETURNING ` + columns

	var p Product
	err := sqlx.GetContext(ctx, tx, &p, q, id, quantity, time.Now().UTC())
	if err == nil {
		return p, nil
	}

	if !errors.Is(database.Err(err), database.ErrDBNotFound) {
		return Product{}, fmt.Errorf("decreasing stock of product[%s]: %w", id, err)
	}

	if _, err := Fetch(ctx, tx, id); err != nil {
		return Product{}, err
	}

	return Product{}, &OutOfStockError{ProductID: id}
}

package user

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/orderly/database"
	"github.com/jmoiron/sqlx"
)

const columns = `user_id, name, email, role, password_hash, created_at, updated_at`

func Create(ctx context.Context, db sqlx.ExtContext, u User) error {
	const q = `
	INSERT INTO users
		(user_id, name, email, role, password_hash, created_at, updated_at)
	VALUES
		(:user_id, :name, :email, :role, :password_hash, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, u); err != nil {
		return fmt.Errorf("inserting user: %w", database.Err(err))
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.QueryerContext, id string) (User, error) {
	q := `SELECT ` + columns + ` FROM users WHERE user_id = $1`

	var u User
	if err := sqlx.GetContext(ctx, db, &u, q, id); err != nil {
		return User{}, fmt.Errorf("selecting user[%s]: %w", id, database.Err(err))
	}

	return u, nil
}

func FetchByEmail(ctx context.Context, db sqlx.QueryerContext, email string) (User, error) {
	q := `SELECT ` + columns + ` FROM users WHERE email = $1`

	var u User
	if err := sqlx.GetContext(ctx, db, &u, q, email); err != nil {
		return User{}, fmt.Errorf("selecting user by email: %w", database.Err(err))
	}

	return u, nil
}

func FetchAll(ctx context.Context, db sqlx.QueryerContext) ([]User, error) {
	q := `SELECT ` + columns + ` FROM users ORDER BY created_at, user_id`

	us := []User{}
	if err := sqlx.SelectContext(ctx, db, &us, q); err != nil {
		return nil, fmt.Errorf("selecting users: %w", err)
	}

	return us, nil
}

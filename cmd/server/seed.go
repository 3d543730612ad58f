package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/irsalhamdi/orderly/config"
	"github.com/irsalhamdi/orderly/core/claims"
	"github.com/irsalhamdi/orderly/core/user"
	"github.com/irsalhamdi/orderly/database"
	"github.com/jmoiron/sqlx"
)

// seedAdmin creates the configured administrator unless an account with
// that email already exists.
func seedAdmin(ctx context.Context, db *sqlx.DB, cfg config.Admin) error {
	if cfg.Email == "" {
		return nil
	}
	if cfg.Password == "" {
		return errors.New("admin password is required when an admin email is set")
	}

	u, err := user.New(cfg.Name, cfg.Email, claims.RoleAdmin, cfg.Password)
	if err != nil {
		return err
	}

	if err := user.Create(ctx, db, u); err != nil {
		if errors.Is(err, database.ErrDBDuplicatedEntry) {
			return nil
		}
		return fmt.Errorf("creating admin: %w", err)
	}

	return nil
}

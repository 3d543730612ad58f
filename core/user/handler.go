package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/orderly/api/web"
	"github.com/irsalhamdi/orderly/api/weberr"
	"github.com/irsalhamdi/orderly/core/claims"
	"github.com/irsalhamdi/orderly/database"
	"github.com/irsalhamdi/orderly/validate"
	"github.com/jmoiron/sqlx"
)

func HandleShowCurrent(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		u, err := Fetch(ctx, db, clm.UserID)
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching current user: %w", err)
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequestMsg(err)
		}

		if err := claims.Authorize(ctx, id); err != nil {
			return weberr.Forbidden(err)
		}

		u, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

// HandleList returns every account, for administrators.
func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		us, err := FetchAll(ctx, db)
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}

		return web.Respond(ctx, w, us, http.StatusOK)
	}
}

// HandleCreate lets administrators create accounts with any role.
func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var un UserNew
		if err := web.Decode(w, r, &un); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(un); err != nil {
			return weberr.BadRequestMsg(err)
		}

		u, err := New(un.Name, un.Email, un.Role, un.Password)
		if err != nil {
			return err
		}

		if err := Create(ctx, db, u); err != nil {
			if errors.Is(err, database.ErrDBDuplicatedEntry) {
				return weberr.Conflict(err, "email is already in use")
			}
			return err
		}

		return web.Respond(ctx, w, u, http.StatusCreated)
	}
}

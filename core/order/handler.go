package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/orderly/api/web"
	"github.com/irsalhamdi/orderly/api/weberr"
	"github.com/irsalhamdi/orderly/core/claims"
	"github.com/irsalhamdi/orderly/database"
	"github.com/irsalhamdi/orderly/validate"
	"github.com/jmoiron/sqlx"
)

// Show returns the order if the caller owns it or is an administrator.
func Show(ctx context.Context, db sqlx.QueryerContext, id string) (Order, error) {
	ord, err := Fetch(ctx, db, id)
	if err != nil {
		return Order{}, err
	}

	if err := claims.Authorize(ctx, ord.UserID); err != nil {
		return Order{}, err
	}

	return ord, nil
}

// List returns every order to administrators and the caller's own orders to
// everyone else.
func List(ctx context.Context, db sqlx.QueryerContext) ([]Order, error) {
	clm, err := claims.Get(ctx)
	if err != nil {
		return nil, claims.ErrForbidden
	}

	if clm.IsAdmin() {
		return FetchAll(ctx, db)
	}

	return FetchByUser(ctx, db, clm.UserID)
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		ords, err := List(ctx, db)
		if err != nil {
			if errors.Is(err, claims.ErrForbidden) {
				return weberr.NotAuthorized(err)
			}
			return fmt.Errorf("listing orders: %w", err)
		}

		return web.Respond(ctx, w, ords, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequestMsg(err)
		}

		ord, err := Show(ctx, db, id)
		if err != nil {
			opt := weberr.WithFields(map[string]interface{}{"order_id": id})
			switch {
			case errors.Is(err, database.ErrDBNotFound):
				return weberr.NotFound(err, opt)
			case errors.Is(err, claims.ErrForbidden):
				return weberr.Forbidden(err, opt)
			}
			return err
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}

func HandleUpdateStatus(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequestMsg(err)
		}

		var up StatusUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.BadRequestMsg(err)
		}

		status, err := ParseStatus(up.Status)
		if err != nil {
			return weberr.BadRequestMsg(err)
		}

		ord, err := UpdateStatus(ctx, db, id, status, time.Now().UTC())
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		return web.Respond(ctx, w, ord, http.StatusOK)
	}
}

package cart

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

		c, err := FetchOrCreate(ctx, db, clm.UserID)
		if err != nil {
			return fmt.Errorf("fetching cart of user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID := web.Param(r, "id")
		if err := validate.CheckID(cartID); err != nil {
			return weberr.BadRequestMsg(err)
		}

		c, err := Show(ctx, db, cartID)
		if err != nil {
			return requestErr(err, cartID, "")
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleClear(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID := web.Param(r, "id")
		if err := validate.CheckID(cartID); err != nil {
			return weberr.BadRequestMsg(err)
		}

		c, err := Clear(ctx, db, cartID)
		if err != nil {
			return requestErr(err, cartID, "")
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleShowItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, productID, err := itemParams(r)
		if err != nil {
			return err
		}

		it, err := ShowItem(ctx, db, cartID, productID)
		if err != nil {
			return requestErr(err, cartID, productID)
		}

		return web.Respond(ctx, w, it, http.StatusOK)
	}
}

func HandleCreateItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, productID, err := itemParams(r)
		if err != nil {
			return err
		}

		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.BadRequestMsg(err)
		}

		it, err := AddItem(ctx, db, cartID, productID, in.Quantity)
		if err != nil {
			return requestErr(err, cartID, productID)
		}

		return web.Respond(ctx, w, it, http.StatusOK)
	}
}

func HandleUpdateItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, productID, err := itemParams(r)
		if err != nil {
			return err
		}

		var up ItemUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.BadRequestMsg(err)
		}

		it, removed, err := SetItemQuantity(ctx, db, cartID, productID, *up.Quantity)
		if err != nil {
			return requestErr(err, cartID, productID)
		}

		if removed {
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		}

		return web.Respond(ctx, w, it, http.StatusOK)
	}
}

func HandleDeleteItem(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID, productID, err := itemParams(r)
		if err != nil {
			return err
		}

		if err := RemoveItem(ctx, db, cartID, productID); err != nil {
			return requestErr(err, cartID, productID)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func itemParams(r *http.Request) (cartID string, productID string, err error) {
	cartID = web.Param(r, "id")
	if err := validate.CheckID(cartID); err != nil {
		return "", "", weberr.BadRequestMsg(err)
	}

	productID = web.Param(r, "product_id")
	if err := validate.CheckID(productID); err != nil {
		return "", "", weberr.BadRequestMsg(err)
	}

	return cartID, productID, nil
}

func requestErr(err error, cartID, productID string) error {
	fields := map[string]interface{}{"cart_id": cartID}
	if productID != "" {
		fields["product_id"] = productID
	}
	opt := weberr.WithFields(fields)

	switch {
	case errors.Is(err, database.ErrDBNotFound):
		return weberr.NotFound(err, opt)
	case errors.Is(err, claims.ErrForbidden):
		return weberr.Forbidden(err, opt)
	case errors.Is(err, ErrInvalidQuantity):
		return weberr.BadRequestMsg(ErrInvalidQuantity, opt)
	case errors.Is(err, ErrQuantityLimit):
		return weberr.BadRequestMsg(ErrQuantityLimit, opt)
	}

	return weberr.Wrap(err, opt)
}

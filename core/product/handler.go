package product

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/orderly/api/web"
	"github.com/irsalhamdi/orderly/api/weberr"
	"github.com/irsalhamdi/orderly/database"
	"github.com/irsalhamdi/orderly/validate"
	"github.com/jmoiron/sqlx"
)

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		ps, err := FetchAll(ctx, db)
		if err != nil {
			return fmt.Errorf("listing products: %w", err)
		}

		return web.Respond(ctx, w, ps, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequestMsg(err)
		}

		p, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var pn ProductNew
		if err := web.Decode(w, r, &pn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(pn); err != nil {
			return weberr.BadRequestMsg(err)
		}

		now := time.Now().UTC()
		p := Product{
			ID:          validate.GenerateID(),
			Name:        pn.Name,
			Description: pn.Description,
			Brand:       pn.Brand,
			Price:       pn.Price,
			Stock:       pn.Stock,
			CreatedAt:   now,
			UpdatedAt:   now,
			Version:     1,
		}

		if err := Create(ctx, db, p); err != nil {
			return fmt.Errorf("creating product: %w", err)
		}

		return web.Respond(ctx, w, p, http.StatusCreated)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequestMsg(err)
		}

		var pu ProductUp
		if err := web.Decode(w, r, &pu); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(pu); err != nil {
			return weberr.BadRequestMsg(err)
		}

		p, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		if err := pu.Apply(&p); err != nil {
			return weberr.BadRequestMsg(err)
		}
		p.UpdatedAt = time.Now().UTC()

		p, err = Update(ctx, db, p)
		if err != nil {
			if errors.Is(err, ErrVersionConflict) {
				return weberr.Conflict(err, err.Error())
			}
			return err
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.BadRequestMsg(err)
		}

		if err := Delete(ctx, db, id); err != nil {
			switch {
			case errors.Is(err, database.ErrDBNotFound):
				return weberr.NotFound(err)
			case errors.Is(err, database.ErrDBReferenced):
				return weberr.Conflict(err, "product is still held by a cart or an order")
			}
			return err
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

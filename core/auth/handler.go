package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/orderly/api/web"
	"github.com/irsalhamdi/orderly/api/weberr"
	"github.com/irsalhamdi/orderly/core/claims"
	"github.com/irsalhamdi/orderly/core/user"
	"github.com/irsalhamdi/orderly/database"
	"github.com/irsalhamdi/orderly/validate"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type Signup struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"eqfield=Password"`
}

type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var errBadCredentials = errors.New("invalid email or password")

// HandleSignup registers a customer and logs them in.
func HandleSignup(db *sqlx.DB, sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in Signup
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.BadRequestMsg(err)
		}

		u, err := user.New(in.Name, in.Email, claims.RoleCustomer, in.Password)
		if err != nil {
			return err
		}

		if err := user.Create(ctx, db, u); err != nil {
			if errors.Is(err, database.ErrDBDuplicatedEntry) {
				return weberr.Conflict(err, "email is already in use")
			}
			return fmt.Errorf("creating user: %w", err)
		}

		if err := login(ctx, sm, u.ID, u.Role); err != nil {
			return fmt.Errorf("starting session: %w", err)
		}

		return web.Respond(ctx, w, u, http.StatusCreated)
	}
}

func HandleLogin(db *sqlx.DB, sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in Login
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.BadRequestMsg(err)
		}

		u, err := user.FetchByEmail(ctx, db, strings.ToLower(in.Email))
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotAuthorized(errBadCredentials)
			}
			return err
		}

		if len(u.PasswordHash) == 0 {
			return weberr.NotAuthorized(errBadCredentials)
		}

		if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(in.Password)); err != nil {
			return weberr.NotAuthorized(errBadCredentials)
		}

		if err := login(ctx, sm, u.ID, u.Role); err != nil {
			return fmt.Errorf("starting session: %w", err)
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

func HandleLogout(sm *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := sm.Destroy(ctx); err != nil {
			return fmt.Errorf("destroying session: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/orderly/api/web"
	"github.com/irsalhamdi/orderly/api/weberr"
	"github.com/irsalhamdi/orderly/core/claims"
)

const (
	userIDKey     = "userID"
	roleKey       = "role"
	oauthStateKey = "oauthState"
)

// LoadAndSave loads the session of the request and commits it once the
// handler chain returns.
func LoadAndSave(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var err error
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err = handler(r.Context(), w, r)
			})

			sm.LoadAndSave(next).ServeHTTP(w, r.WithContext(ctx))
			return err
		}
		return h
	}
	return m
}

// Authenticate rejects requests without a logged in user and puts the
// user's claims in the context otherwise.
func Authenticate(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			clm, ok := sessionClaims(ctx, sm)
			if !ok {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			return handler(claims.Set(ctx, clm), w, r)
		}
		return h
	}
	return m
}

// Admin is Authenticate restricted to administrators.
func Admin(sm *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			clm, ok := sessionClaims(ctx, sm)
			if !ok {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			if !clm.IsAdmin() {
				return weberr.Forbidden(errors.New("user is not an administrator"))
			}

			return handler(claims.Set(ctx, clm), w, r)
		}
		return h
	}
	return m
}

func sessionClaims(ctx context.Context, sm *scs.SessionManager) (claims.Claims, bool) {
	id := sm.GetString(ctx, userIDKey)
	if id == "" {
		return claims.Claims{}, false
	}

	return claims.Claims{
		UserID: id,
		Role:   sm.GetString(ctx, roleKey),
	}, true
}

func login(ctx context.Context, sm *scs.SessionManager, userID, role string) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}

	sm.Put(ctx, userIDKey, userID)
	sm.Put(ctx, roleKey, role)
	return nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/irsalhamdi/orderly/api/web"
	"github.com/irsalhamdi/orderly/api/weberr"
	"github.com/irsalhamdi/orderly/core/claims"
	"github.com/irsalhamdi/orderly/core/user"
	"github.com/irsalhamdi/orderly/database"
	"github.com/irsalhamdi/orderly/random"
	"github.com/irsalhamdi/orderly/validate"
	"github.com/jmoiron/sqlx"
	"golang.org/x/oauth2"
)

type ProviderConfig struct {
	Name        string
	Client      string
	Secret      string
	URL         string
	RedirectURL string
}

type Provider struct {
	oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// MakeProviders runs OIDC discovery for every configured provider. Providers
// without a client id are skipped.
func MakeProviders(ctx context.Context, cfgs []ProviderConfig) (map[string]Provider, error) {
	provs := make(map[string]Provider, len(cfgs))
	for _, cfg := range cfgs {
		if cfg.Client == "" {
			continue
		}

		p, err := oidc.NewProvider(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("discovering provider[%s]: %w", cfg.Name, err)
		}

		provs[cfg.Name] = Provider{
			Config: oauth2.Config{
				ClientID:     cfg.Client,
				ClientSecret: cfg.Secret,
				Endpoint:     p.Endpoint(),
				RedirectURL:  cfg.RedirectURL,
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
			verifier: p.Verifier(&oidc.Config{ClientID: cfg.Client}),
		}
	}
	return provs, nil
}

func HandleOauthLogin(sm *scs.SessionManager, provs map[string]Provider) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		name := web.Param(r, "provider")
		prov, ok := provs[name]
		if !ok {
			return weberr.NotFound(fmt.Errorf("provider[%s] is not configured", name))
		}

		state, err := random.StringSecure(32)
		if err != nil {
			return fmt.Errorf("generating oauth state: %w", err)
		}
		sm.Put(ctx, oauthStateKey, state)

		http.Redirect(w, r, prov.AuthCodeURL(state), http.StatusFound)
		return nil
	}
}

// HandleOauthCallback completes the login started by HandleOauthLogin. The
// first login of an unknown verified email creates a customer account.
func HandleOauthCallback(db *sqlx.DB, sm *scs.SessionManager, provs map[string]Provider, redirectURL string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		name := web.Param(r, "provider")
		prov, ok := provs[name]
		if !ok {
			return weberr.NotFound(fmt.Errorf("provider[%s] is not configured", name))
		}

		state := sm.PopString(ctx, oauthStateKey)
		if state == "" || r.URL.Query().Get("state") != state {
			return weberr.BadRequest(errors.New("oauth state mismatch"))
		}

		tok, err := prov.Exchange(ctx, r.URL.Query().Get("code"))
		if err != nil {
			return weberr.NotAuthorized(fmt.Errorf("exchanging oauth code: %w", err))
		}

		raw, ok := tok.Extra("id_token").(string)
		if !ok {
			return weberr.NotAuthorized(errors.New("id_token missing from oauth token"))
		}

		idTok, err := prov.verifier.Verify(ctx, raw)
		if err != nil {
			return weberr.NotAuthorized(fmt.Errorf("verifying id_token: %w", err))
		}

		var info struct {
			Email         string `json:"email"`
			EmailVerified bool   `json:"email_verified"`
			Name          string `json:"name"`
		}
		if err := idTok.Claims(&info); err != nil {
			return fmt.Errorf("decoding id_token claims: %w", err)
		}

		if info.Email == "" || !info.EmailVerified {
			return weberr.NotAuthorized(errors.New("oauth account has no verified email"))
		}

		u, err := oauthUser(ctx, db, info.Name, info.Email)
		if err != nil {
			return err
		}

		if err := login(ctx, sm, u.ID, u.Role); err != nil {
			return fmt.Errorf("starting session: %w", err)
		}

		http.Redirect(w, r, redirectURL, http.StatusFound)
		return nil
	}
}

func oauthUser(ctx context.Context, db *sqlx.DB, name, email string) (user.User, error) {
	email = strings.ToLower(email)

	u, err := user.FetchByEmail(ctx, db, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, database.ErrDBNotFound) {
		return user.User{}, err
	}

	now := time.Now().UTC()
	u = user.User{
		ID:        validate.GenerateID(),
		Name:      name,
		Email:     email,
		Role:      claims.RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Create(ctx, db, u); err != nil {
		if errors.Is(err, database.ErrDBDuplicatedEntry) {
			return user.FetchByEmail(ctx, db, email)
		}
		return user.User{}, fmt.Errorf("creating oauth user: %w", err)
	}

	return u, nil
}

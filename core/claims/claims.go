package claims

import (
	"context"
	"errors"
)

const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// ErrForbidden is returned when the caller is neither the owner of a
// resource nor an administrator.
var ErrForbidden = errors.New("attempted action is not allowed")

type Claims struct {
	UserID string
	Role   string
}

func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Owns reports whether the claims may act on a resource owned by userID.
func (c Claims) Owns(userID string) bool {
	return c.UserID == userID || c.IsAdmin()
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}

func IsAdmin(ctx context.Context) bool {
	c, err := Get(ctx)
	if err != nil {
		return false
	}

	return c.IsAdmin()
}

func IsUser(ctx context.Context, id string) bool {
	c, err := Get(ctx)
	if err != nil {
		return false
	}

	return c.UserID == id
}

// Authorize fails with ErrForbidden unless the caller in ctx owns the
// resource or is an administrator.
func Authorize(ctx context.Context, ownerID string) error {
	c, err := Get(ctx)
	if err != nil {
		return ErrForbidden
	}

	if !c.Owns(ownerID) {
		return ErrForbidden
	}

	return nil
}

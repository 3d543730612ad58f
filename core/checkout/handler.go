package checkout

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/irsalhamdi/orderly/api/web"
	"github.com/irsalhamdi/orderly/api/weberr"
	"github.com/irsalhamdi/orderly/core/cart"
	"github.com/irsalhamdi/orderly/core/claims"
	"github.com/irsalhamdi/orderly/core/product"
	"github.com/irsalhamdi/orderly/database"
	"github.com/irsalhamdi/orderly/metrics"
	"github.com/irsalhamdi/orderly/validate"
	"github.com/jmoiron/sqlx"
)

// HandleCheckout checks out the caller's own cart.
func HandleCheckout(db *sqlx.DB, m *metrics.Metrics, timeout time.Duration) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		ord, err := CheckoutUser(ctx, db, clm.UserID)
		m.Checkout(result(err))
		if err != nil {
			return requestErr(err)
		}

		return web.Respond(ctx, w, ord, http.StatusCreated)
	}
}

// HandleCheckoutCart checks out the cart named in the path. Administrators
// may check out any cart.
func HandleCheckoutCart(db *sqlx.DB, m *metrics.Metrics, timeout time.Duration) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cartID := web.Param(r, "id")
		if err := validate.CheckID(cartID); err != nil {
			return weberr.BadRequestMsg(err)
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		ord, err := Checkout(ctx, db, cartID)
		m.Checkout(result(err))
		if err != nil {
			return requestErr(err, weberr.WithFields(map[string]interface{}{"cart_id": cartID}))
		}

		return web.Respond(ctx, w, ord, http.StatusCreated)
	}
}

func result(err error) string {
	var empty *cart.EmptyError
	var oos *product.OutOfStockError

	switch {
	case err == nil:
		return metrics.CheckoutSuccess
	case errors.As(err, &empty):
		return metrics.CheckoutEmptyCart
	case errors.As(err, &oos):
		return metrics.CheckoutOutOfStock
	case errors.Is(err, database.ErrDBNotFound), errors.Is(err, claims.ErrForbidden):
		return metrics.CheckoutRejected
	}
	return metrics.CheckoutError
}

func requestErr(err error, opts ...weberr.Opt) error {
	var empty *cart.EmptyError
	var oos *product.OutOfStockError

	switch {
	case errors.As(err, &empty):
		return weberr.Unprocessable(err, empty.Error(), opts...)
	case errors.As(err, &oos):
		opts = append(opts, weberr.WithFields(map[string]interface{}{"product_id": oos.ProductID}))
		return weberr.Conflict(err, oos.Error(), opts...)
	case errors.Is(err, database.ErrDBNotFound):
		return weberr.NotFound(err, opts...)
	case errors.Is(err, claims.ErrForbidden):
		return weberr.Forbidden(err, opts...)
	}

	return weberr.Wrap(err, opts...)
}

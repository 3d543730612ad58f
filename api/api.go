package api

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/orderly/api/middleware"
	"github.com/irsalhamdi/orderly/api/web"
	"github.com/irsalhamdi/orderly/core/auth"
	"github.com/irsalhamdi/orderly/core/cart"
	"github.com/irsalhamdi/orderly/core/checkout"
	"github.com/irsalhamdi/orderly/core/order"
	"github.com/irsalhamdi/orderly/core/product"
	"github.com/irsalhamdi/orderly/core/user"
	"github.com/irsalhamdi/orderly/metrics"
	"github.com/irsalhamdi/orderly/rate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin       string
	Log              logrus.FieldLogger
	DB               *sqlx.DB
	Session          *scs.SessionManager
	Metrics          *metrics.Metrics
	LoginLimiter     *rate.Limiter
	Providers        map[string]auth.Provider
	LoginRedirectURL string
	CheckoutTimeout  time.Duration
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Metrics(cfg.Metrics))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Session)
	admin := auth.Admin(cfg.Session)
	limit := middleware.RateLimit(cfg.LoginLimiter)

	a.Handle(http.MethodPost, "/auth/signup", auth.HandleSignup(cfg.DB, cfg.Session), limit)
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.DB, cfg.Session), limit)
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Session))
	a.Handle(http.MethodGet, "/auth/oauth-login/{provider}", auth.HandleOauthLogin(cfg.Session, cfg.Providers))
	a.Handle(http.MethodGet, "/auth/oauth-callback/{provider}", auth.HandleOauthCallback(cfg.DB, cfg.Session, cfg.Providers, cfg.LoginRedirectURL))

	a.Handle(http.MethodGet, "/users/current", user.HandleShowCurrent(cfg.DB), authen)
	a.Handle(http.MethodGet, "/users/{id}", user.HandleShow(cfg.DB), authen)
	a.Handle(http.MethodGet, "/users", user.HandleList(cfg.DB), admin)
	a.Handle(http.MethodPost, "/users", user.HandleCreate(cfg.DB), admin)

	a.Handle(http.MethodGet, "/products", product.HandleList(cfg.DB))
	a.Handle(http.MethodGet, "/products/{id}", product.HandleShow(cfg.DB))
	a.Handle(http.MethodPost, "/products", product.HandleCreate(cfg.DB), admin)
	a.Handle(http.MethodPut, "/products/{id}", product.HandleUpdate(cfg.DB), admin)
	a.Handle(http.MethodDelete, "/products/{id}", product.HandleDelete(cfg.DB), admin)

	a.Handle(http.MethodGet, "/cart", cart.HandleShowCurrent(cfg.DB), authen)
	a.Handle(http.MethodGet, "/carts/{id}", cart.HandleShow(cfg.DB), authen)
	a.Handle(http.MethodDelete, "/carts/{id}/items", cart.HandleClear(cfg.DB), authen)
	a.Handle(http.MethodPost, "/carts/{id}/items/{product_id}", cart.HandleCreateItem(cfg.DB), authen)
	a.Handle(http.MethodGet, "/carts/{id}/items/{product_id}", cart.HandleShowItem(cfg.DB), authen)
	a.Handle(http.MethodPut, "/carts/{id}/items/{product_id}", cart.HandleUpdateItem(cfg.DB), authen)
	a.Handle(http.MethodDelete, "/carts/{id}/items/{product_id}", cart.HandleDeleteItem(cfg.DB), authen)

	a.Handle(http.MethodPost, "/checkout", checkout.HandleCheckout(cfg.DB, cfg.Metrics, cfg.CheckoutTimeout), authen)
	a.Handle(http.MethodPost, "/carts/{id}/checkout", checkout.HandleCheckoutCart(cfg.DB, cfg.Metrics, cfg.CheckoutTimeout), authen)

	a.Handle(http.MethodGet, "/orders", order.HandleList(cfg.DB), authen)
	a.Handle(http.MethodGet, "/orders/{id}", order.HandleShow(cfg.DB), authen)
	a.Handle(http.MethodPatch, "/orders/{id}", order.HandleUpdateStatus(cfg.DB), admin)

	a.Router.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}

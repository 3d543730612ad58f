package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/ardanlabs/conf/v3"
	"github.com/irsalhamdi/orderly/api"
	"github.com/irsalhamdi/orderly/config"
	"github.com/irsalhamdi/orderly/core/auth"
	"github.com/irsalhamdi/orderly/database"
	"github.com/irsalhamdi/orderly/metrics"
	"github.com/irsalhamdi/orderly/rate"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	logger.Infof("starting server")
	defer logger.Info("shutdown complete")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	const prefix = "ORDERLY"
	var cfg config.Config
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	db, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open db connection: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.StatusCheck(ctx, db); err != nil {
		return fmt.Errorf("database is not ready: %w", err)
	}

	if cfg.DB.Migrate {
		logger.Info("applying migrations")
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	if err := seedAdmin(ctx, db, cfg.Admin); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Session.Lifetime

	limiter := rate.NewLimiter(cfg.Auth.LoginBurst, cfg.Auth.LoginExpiry, rate.Every(cfg.Auth.LoginInterval))
	defer limiter.Close()

	dctx, dcancel := context.WithTimeout(context.Background(), cfg.Oauth.DiscoveryTimeout)
	defer dcancel()
	google := cfg.Oauth.Google
	oauthProvs, err := auth.MakeProviders(dctx, []auth.ProviderConfig{
		{Name: "google", Client: google.Client, Secret: google.Secret, URL: google.URL, RedirectURL: google.RedirectURL},
	})
	if err != nil {
		return fmt.Errorf("failed to discover oauth providers: %w", err)
	}

	mux := api.APIMux(api.APIConfig{
		CorsOrigin:       cfg.Cors.Origin,
		Log:              logger,
		DB:               db,
		Session:          sessionManager,
		Metrics:          metrics.New(),
		LoginLimiter:     limiter,
		Providers:        oauthProvs,
		LoginRedirectURL: cfg.Oauth.LoginRedirectURL,
		CheckoutTimeout:  cfg.Checkout.Timeout,
	})

	api := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}

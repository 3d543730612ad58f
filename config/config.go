package config

import "time"

type Config struct {
	Web      Web
	DB       DB
	Cors     Cors
	Session  Session
	Auth     Auth
	Oauth    Oauth
	Admin    Admin
	Checkout Checkout
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost:5432"`
	Name         string `conf:"default:orderly"`
	MaxIdleConns int    `conf:"default:2"`
	MaxOpenConns int    `conf:"default:10"`
	DisableTLS   bool   `conf:"default:true"`
	Migrate      bool   `conf:"default:true"`
}

type Cors struct {
	Origin string
}

type Session struct {
	Lifetime time.Duration `conf:"default:24h"`
}

type Auth struct {
	LoginBurst    int           `conf:"default:5"`
	LoginInterval time.Duration `conf:"default:2s"`
	LoginExpiry   int           `conf:"default:10"`
}

type Oauth struct {
	DiscoveryTimeout time.Duration `conf:"default:10s"`
	LoginRedirectURL string        `conf:"default:http://localhost:3000"`
	Google           OauthProvider
}

type OauthProvider struct {
	Client      string
	Secret      string `conf:"mask"`
	URL         string `conf:"default:https://accounts.google.com"`
	RedirectURL string
}

type Admin struct {
	Name     string `conf:"default:Administrator"`
	Email    string
	Password string `conf:"mask"`
}

type Checkout struct {
	Timeout time.Duration `conf:"default:5s"`
}

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/orderly/api"
	"github.com/irsalhamdi/orderly/config"
	"github.com/irsalhamdi/orderly/core/auth"
	"github.com/irsalhamdi/orderly/core/claims"
	"github.com/irsalhamdi/orderly/core/user"
	"github.com/irsalhamdi/orderly/database"
	"github.com/irsalhamdi/orderly/metrics"
	"github.com/irsalhamdi/orderly/rate"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sirupsen/logrus"
)

const testPass = "secret-password"

type TestEnv struct {
	*httptest.Server
	DB        *sqlx.DB
	Metrics   *metrics.Metrics
	AdminID   string
	AdminMail string
}

// NewTestEnv starts a Postgres container, applies the migrations, seeds an
// administrator and serves the API over httptest. The test is skipped when
// no Docker daemon is reachable.
func NewTestEnv(t *testing.T, name string) (*TestEnv, error) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	pool.MaxWait = 2 * time.Minute

	res, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "14-alpine",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_DB=" + name,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("starting postgres: %w", err)
	}
	t.Cleanup(func() {
		if err := pool.Purge(res); err != nil {
			t.Logf("purging postgres container: %v", err)
		}
	})

	var db *sqlx.DB
	err = pool.Retry(func() error {
		var err error
		db, err = database.Open(config.DB{
			User:         "postgres",
			Password:     "postgres",
			Host:         res.GetHostPort("5432/tcp"),
			Name:         name,
			MaxIdleConns: 5,
			MaxOpenConns: 40,
			DisableTLS:   true,
		})
		if err != nil {
			return err
		}
		return database.StatusCheck(context.Background(), db)
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	limiter := rate.NewLimiter(1000, 10, rate.Every(time.Millisecond))
	t.Cleanup(limiter.Close)

	m := metrics.New()

	srv := httptest.NewServer(api.APIMux(api.APIConfig{
		Log:             log,
		DB:              db,
		Session:         scs.New(),
		Metrics:         m,
		LoginLimiter:    limiter,
		Providers:       map[string]auth.Provider{},
		CheckoutTimeout: 10 * time.Second,
	}))
	t.Cleanup(srv.Close)

	env := &TestEnv{
		Server:    srv,
		DB:        db,
		Metrics:   m,
		AdminMail: "admin@orderly.test",
	}

	admin, err := env.createUser(env.AdminMail, claims.RoleAdmin)
	if err != nil {
		return nil, err
	}
	env.AdminID = admin.ID

	return env, nil
}

func (env *TestEnv) createUser(email, role string) (user.User, error) {
	u, err := user.New("Test "+role, email, role, testPass)
	if err != nil {
		return user.User{}, err
	}
	if err := user.Create(context.Background(), env.DB, u); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// Session is an HTTP client logged in as one user.
type Session struct {
	*http.Client
	URL    string
	UserID string
}

func (env *TestEnv) login(t *testing.T, email string) *Session {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	s := &Session{Client: &http.Client{Jar: jar}, URL: env.URL}

	var u user.User
	s.do(t, http.MethodPost, "/auth/login", auth.Login{Email: email, Password: testPass}, http.StatusOK, &u)
	s.UserID = u.ID
	return s
}

// Admin logs in as the seeded administrator.
func (env *TestEnv) Admin(t *testing.T) *Session {
	t.Helper()
	return env.login(t, env.AdminMail)
}

// Customer creates a new customer account and logs in with it.
func (env *TestEnv) Customer(t *testing.T, email string) *Session {
	t.Helper()

	if _, err := env.createUser(email, claims.RoleCustomer); err != nil {
		t.Fatalf("creating customer %s: %v", email, err)
	}
	return env.login(t, email)
}

func (s *Session) do(t *testing.T, method, path string, body any, want int, out any) {
	t.Helper()

	code, b, err := s.send(method, path, body)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	if code != want {
		t.Fatalf("%s %s: expected status %d, got %d: %s", method, path, want, code, b)
	}

	if out != nil {
		if err := json.Unmarshal(b, out); err != nil {
			t.Fatalf("%s %s: decoding response: %v", method, path, err)
		}
	}
}

// send performs the request without failing the test, so it can run from
// goroutines.
func (s *Session) send(method, path string, body any) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		rd = bytes.NewReader(b)
	}

	r, err := http.NewRequest(method, s.URL+path, rd)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	w, err := s.Do(r)
	if err != nil {
		return 0, nil, err
	}
	defer w.Body.Close()

	b, err := io.ReadAll(w.Body)
	if err != nil {
		return 0, nil, err
	}

	return w.StatusCode, b, nil
}

package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWrapMiddlewareOrder(t *testing.T) {
	var calls []string
	tag := func(name string) Middleware {
		return func(h Handler) Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				calls = append(calls, name)
				return h(ctx, w, r)
			}
		}
	}

	h := WrapMiddleware([]Middleware{tag("outer"), nil, tag("inner")}, func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		calls = append(calls, "handler")
		return nil
	})

	if err := h(context.Background(), httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)); err != nil {
		t.Fatal(err)
	}

	want := "outer,inner,handler"
	if got := strings.Join(calls, ","); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestDecode(t *testing.T) {
	var v struct {
		Quantity int `json:"quantity"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity": 3}`))
	if err := Decode(httptest.NewRecorder(), r, &v); err != nil {
		t.Fatal(err)
	}
	if v.Quantity != 3 {
		t.Fatalf("expected 3, got %d", v.Quantity)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity": 3, "price": 1}`))
	if err := Decode(httptest.NewRecorder(), r, &v); err == nil {
		t.Fatal("expected unknown fields to be rejected")
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	if err := Decode(httptest.NewRecorder(), r, &v); err == nil || err.Error() != "request body is empty" {
		t.Fatalf("expected empty body error, got %v", err)
	}
}

func TestRespond(t *testing.T) {
	w := httptest.NewRecorder()
	if err := Respond(context.Background(), w, map[string]int{"n": 1}, http.StatusCreated); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if body := strings.TrimSpace(w.Body.String()); body != `{"n":1}` {
		t.Fatalf("unexpected body %s", body)
	}
}

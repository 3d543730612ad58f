package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCheckoutCounter(t *testing.T) {
	m := New()

	m.Checkout(CheckoutSuccess)
	m.Checkout(CheckoutSuccess)
	m.Checkout(CheckoutOutOfStock)

	if got := testutil.ToFloat64(m.Checkouts.WithLabelValues(CheckoutSuccess)); got != 2 {
		t.Fatalf("expected 2 successful checkouts, got %v", got)
	}
	if got := testutil.ToFloat64(m.Checkouts.WithLabelValues(CheckoutOutOfStock)); got != 1 {
		t.Fatalf("expected 1 out of stock checkout, got %v", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.Checkout(CheckoutEmptyCart)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	b, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `orderly_checkout_attempts_total{result="empty_cart"} 1`) {
		t.Fatalf("checkout counter missing from exposition:\n%s", b)
	}
}

func TestNewIsolatedRegistries(t *testing.T) {
	// Registering twice on the default registry would panic.
	_ = New()
	_ = New()
}

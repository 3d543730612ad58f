package test

import (
	"net/http"
	"testing"

	"github.com/irsalhamdi/orderly/core/product"
)

func TestProductDelete(t *testing.T) {
	env, err := NewTestEnv(t, "product_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	admin := env.Admin(t)
	alice := env.Customer(t, "alice@orderly.test")

	t.Run("unreferenced product", func(t *testing.T) {
		p := createProduct(t, admin, "Loose", "3", 2)

		alice.do(t, http.MethodDelete, "/products/"+p.ID, nil, http.StatusForbidden, nil)
		admin.do(t, http.MethodDelete, "/products/"+p.ID, nil, http.StatusNoContent, nil)
		admin.do(t, http.MethodGet, "/products/"+p.ID, nil, http.StatusNotFound, nil)
		admin.do(t, http.MethodDelete, "/products/"+p.ID, nil, http.StatusNotFound, nil)
	})

	t.Run("product held by a cart", func(t *testing.T) {
		p := createProduct(t, admin, "Carted", "4", 2)
		c := currentCart(t, alice)
		addItem(t, alice, c.ID, p.ID, 1)

		admin.do(t, http.MethodDelete, "/products/"+p.ID, nil, http.StatusConflict, nil)
		if got := productStock(t, alice, p.ID); got != 2 {
			t.Fatalf("expected product to survive, got stock %d", got)
		}

		alice.do(t, http.MethodDelete, itemPath(c.ID, p.ID), nil, http.StatusNoContent, nil)
		admin.do(t, http.MethodDelete, "/products/"+p.ID, nil, http.StatusNoContent, nil)
	})

	t.Run("product held by an order", func(t *testing.T) {
		p := createProduct(t, admin, "Ordered", "5", 2)
		c := currentCart(t, alice)
		addItem(t, alice, c.ID, p.ID, 1)
		alice.do(t, http.MethodPost, "/checkout", nil, http.StatusCreated, nil)

		admin.do(t, http.MethodDelete, "/products/"+p.ID, nil, http.StatusConflict, nil)

		var got product.Product
		admin.do(t, http.MethodGet, "/products/"+p.ID, nil, http.StatusOK, &got)
		if got.Stock != 1 {
			t.Fatalf("expected stock 1, got %d", got.Stock)
		}
	})

	admin.do(t, http.MethodDelete, "/products/nope", nil, http.StatusBadRequest, nil)
}

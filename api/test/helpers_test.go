package test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/irsalhamdi/orderly/core/cart"
	"github.com/irsalhamdi/orderly/core/product"
	"github.com/shopspring/decimal"
)

func createProduct(t *testing.T, admin *Session, name, price string, stock int) product.Product {
	t.Helper()

	pn := product.ProductNew{
		Name:  name,
		Brand: "Orderly",
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}

	var p product.Product
	admin.do(t, http.MethodPost, "/products", pn, http.StatusCreated, &p)
	return p
}

func productStock(t *testing.T, s *Session, id string) int {
	t.Helper()

	var p product.Product
	s.do(t, http.MethodGet, "/products/"+id, nil, http.StatusOK, &p)
	return p.Stock
}

func currentCart(t *testing.T, s *Session) cart.Cart {
	t.Helper()

	var c cart.Cart
	s.do(t, http.MethodGet, "/cart", nil, http.StatusOK, &c)
	return c
}

func showCart(t *testing.T, s *Session, cartID string) cart.Cart {
	t.Helper()

	var c cart.Cart
	s.do(t, http.MethodGet, "/carts/"+cartID, nil, http.StatusOK, &c)
	return c
}

func itemPath(cartID, productID string) string {
	return fmt.Sprintf("/carts/%s/items/%s", cartID, productID)
}

func addItem(t *testing.T, s *Session, cartID, productID string, qty int) cart.Item {
	t.Helper()

	var it cart.Item
	s.do(t, http.MethodPost, itemPath(cartID, productID), cart.ItemNew{Quantity: qty}, http.StatusOK, &it)
	return it
}

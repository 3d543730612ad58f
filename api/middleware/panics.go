package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/irsalhamdi/orderly/api/web"
)

// Panics turns a panic in the handler chain into an error.
func Panics() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("PANIC [%v] TRACE [%s]", rec, debug.Stack())
				}
			}()

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

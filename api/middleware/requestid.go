package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/irsalhamdi/orderly/api/web"
	"github.com/irsalhamdi/orderly/random"
)

const (
	RequestIDHeader = "X-Request-Id"

	requestIDLengthLimit = 128
)

type reqIDKeyCtx int

const reqIDKey reqIDKeyCtx = 1

var reqID int64

var reqPrefix = newPrefix()

func newPrefix() string {
	p, err := random.StringSecure(10)
	if err != nil {
		return "orderly"
	}
	return p
}

// RequestID tags the request with the id sent by the client or a new
// process-unique one, and echoes it back in the response.
func RequestID() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if id == "" {
				id = fmt.Sprintf("%s-%d", reqPrefix, atomic.AddInt64(&reqID, 1))
			} else if len(id) > requestIDLengthLimit {
				id = id[:requestIDLengthLimit]
			}

			ctx = context.WithValue(ctx, reqIDKey, id)
			w.Header().Set(RequestIDHeader, id)

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func ContextRequestID(ctx context.Context) string {
	id, _ := ctx.Value(reqIDKey).(string)
	return id
}

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/irsalhamdi/orderly/api/web"
	"github.com/irsalhamdi/orderly/metrics"
	"github.com/zenazn/goji/web/mutil"
)

// Metrics counts requests and observes their latency per route template.
func Metrics(m *metrics.Metrics) web.Middleware {
	mw := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			route := "unknown"
			if cr := mux.CurrentRoute(r); cr != nil {
				if tpl, err := cr.GetPathTemplate(); err == nil {
					route = tpl
				}
			}

			start := time.Now()
			lw := mutil.WrapWriter(w)
			err := handler(ctx, lw, r)

			status := lw.Status()
			if status == 0 {
				status = http.StatusOK
			}

			m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
			m.LatencyMS.WithLabelValues(route, r.Method).Observe(float64(time.Since(start).Milliseconds()))
			return err
		}
		return h
	}
	return mw
}

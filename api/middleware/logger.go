package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/irsalhamdi/orderly/api/web"
	"github.com/sirupsen/logrus"
	"github.com/zenazn/goji/web/mutil"
)

func Logger(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			log := log.WithFields(logrus.Fields{
				"req_id":     ContextRequestID(ctx),
				"method":     r.Method,
				"path":       r.URL.Path,
				"remoteaddr": r.RemoteAddr,
			})

			log.Debug("started")
			start := time.Now()

			lw := mutil.WrapWriter(w)
			err := handler(ctx, lw, r)

			log.WithFields(logrus.Fields{
				"statuscode": lw.Status(),
				"bytes":      lw.BytesWritten(),
				"since_ms":   time.Since(start).Milliseconds(),
			}).Info("completed")
			return err
		}
		return h
	}
	return m
}

package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/liamwears/reelbrowser/internal/client"
	"github.com/liamwears/reelbrowser/internal/middleware"
)

// requestLogger tags logger with the request ID, when the Logger middleware set one
func requestLogger(logger logrus.FieldLogger, r *http.Request) logrus.FieldLogger {
	if id, ok := middleware.GetRequestIDFromContext(r.Context()); ok {
		return logger.WithField("request_id", id)
	}
	return logger
}

// loaderContext carries the visitor's address and request ID onto the
// loader's own calls into /api.
func loaderContext(r *http.Request) context.Context {
	id, _ := middleware.GetRequestIDFromContext(r.Context())
	return client.WithCaller(r.Context(), client.Caller{
		ForwardedFor: middleware.ForwardedFor(r),
		RequestID:    id,
	})
}

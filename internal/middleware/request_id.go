package middleware

import (
	"context"
	"net/http"

	"github.com/fhuszti/stored-images-ms-go/internal/api_context"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// WithRequestID copies the chi request ID into the context key read by the logger,
// and echoes it back in the X-Request-Id response header.
// It must run after chi's RequestID middleware.
func WithRequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chiMiddleware.GetReqID(r.Context())
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(chiMiddleware.RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), api_context.RequestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

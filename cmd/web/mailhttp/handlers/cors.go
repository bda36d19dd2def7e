package handlers

import (
	"net/http"

	"github.com/rs/cors"
)

// WithCORS restricts cross-origin access to the configured origins. Without
// any configured origin the wrapper is a no-op, the API is same-origin then.
func WithCORS(allowedOrigins, allowedHeaders []string) HandlerWrapper {
	return func(handler http.Handler) http.Handler {
		if len(allowedOrigins) == 0 {
			return handler
		}

		c := cors.New(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedHeaders: allowedHeaders,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
		})

		return c.Handler(handler)
	}
}

// Package middleware provides HTTP middleware for the rizz-labs API.
package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"

	"github.com/ashureev/rizz-labs/internal/identity"
)

// CORS returns middleware that handles CORS headers and preflight requests.
// Credentials are only allowed when every origin is explicit; a wildcard list never sends them.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", identity.SessionHeaderName},
		AllowCredentials: !slices.Contains(allowedOrigins, "*"),
	})
	return c.Handler
}

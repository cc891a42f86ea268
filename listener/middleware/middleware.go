// Package middleware provides HTTP middleware for listener handlers.
//
// Every middleware logs through an injected, component-scoped logger rather than the
// slog default, so several listeners in one process keep their records apart.
package middleware

import (
	"net/http"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps handler so that the first middleware is the outermost one.
func Chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	return handler
}

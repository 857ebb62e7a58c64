// Package httpserver constructs the process HTTP server with uniform timeouts.
package httpserver

import (
	"net/http"
	"time"
)

// New returns an http.Server configured with conservative timeouts.
// Handlers that need longer budgets wrap themselves with their own timeout
// middleware; these are the outer bounds.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

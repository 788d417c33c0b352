// Package api implements the Voltbid REST API using chi.
package api

import (
	"net/http"
	"strings"
)

// AuthMiddleware returns middleware enforcing the configured auth mode.
// With enabled false (auth.mode "disabled") every request passes
// through. With enabled true, requests need "Authorization: Bearer"
// matching the configured token or they get a 401.
func AuthMiddleware(enabled bool, token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

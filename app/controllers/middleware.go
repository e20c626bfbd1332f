package controllers

import (
	"net/http"
	"strings"

	"github.com/Kiko4ko1/magnetsbg-store/pkg/auth"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/response"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/session"
)

// RequireAdmin gates a route behind the session flag set at login.
// Unauthenticated browsers are sent to the login form.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.FromCtx(r).GetBool(sessionAdminKey) {
			http.Redirect(w, r, "/admin/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAPIToken gates the JSON API behind a bearer token from the token
// endpoint.
func RequireAPIToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(w)
			return
		}
		if _, err := auth.ValidateToken(token); err != nil {
			response.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

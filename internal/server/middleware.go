package server

import (
	"context"
	"net/http"

	"tasktracker/internal/model"
)

const sessionCookieName = "session_token"

// contextKey is a custom type to avoid context key collisions.
type contextKey string

const userContextKey contextKey = "user"

// requireUser resolves the session cookie into the calling user and
// stores it in the request context. Requests without a valid session
// are routed to the login entry point.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.authSvc.Authenticate(r.Context(), sessionToken(r))
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFrom returns the authenticated user placed by requireUser.
func userFrom(r *http.Request) *model.User {
	user, _ := r.Context().Value(userContextKey).(*model.User)
	return user
}

// sessionToken extracts the session cookie value, empty if absent.
func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

package http

import (
	"context"
	"net/http"
	"strings"

	"bilancio/internal/core"
)

type contextKey string

const userIDKey contextKey = "user_id"

// requireAuth verifies the bearer token and stores the user id in the
// request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, r, core.Unauthorizedf("missing bearer token"))
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
		next(w, r.WithContext(ctx))
	}
}

// userID returns the authenticated user id stored by requireAuth.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

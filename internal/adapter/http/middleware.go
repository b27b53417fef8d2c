package adapthttp

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"sortstore/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// bearerToken extracts the token from an Authorization header with a
// case-insensitive Bearer scheme. Returns "" if the header is missing or
// malformed.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// authMiddleware resolves the bearer token to a user before the handler
// sees the request, so unauthenticated requests fail with 401 regardless
// of any other input problem.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.auth.Resolve(r.Context(), bearerToken(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, errors.New("internal error"))
			return
		}
		if user == nil {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFrom returns the authenticated user stored by authMiddleware.
func userFrom(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userContextKey).(*domain.User)
	return user
}

package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskstack/api/internal/core/domain"
	"github.com/taskstack/api/internal/core/ports"
)

type contextKey string

const (
	// UserKey holds the authenticated *domain.User.
	UserKey contextKey = "user"
	// TokenKey holds the exact token string this request authenticated
	// with, so logout can revoke that one session and no other.
	TokenKey contextKey = "token"
)

// AuthMiddleware resolves the bearer token to a user. Every failure mode
// answers with the same 401 body.
func AuthMiddleware(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respondError(w, domain.ErrAuthenticationRequired)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				respondError(w, domain.ErrAuthenticationRequired)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			ctx = context.WithValue(ctx, TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func userFromContext(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(UserKey).(*domain.User)
	return user, ok
}

func tokenFromContext(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(TokenKey).(string)
	return token, ok
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/socialapi-dev/socialapi/internal/api"
	"github.com/socialapi-dev/socialapi/internal/domain"
	"github.com/socialapi-dev/socialapi/internal/errors"
	"github.com/socialapi-dev/socialapi/internal/service"
)

// Key to store the authenticated user in the request context
type key int

const userKey key = 0

type Auth struct {
	auth service.AuthService
}

func NewAuth(auth service.AuthService) *Auth {
	return &Auth{auth: auth}
}

// RequireAuth resolves the bearer token and stores the user in the request
// context. Requests without a valid token get 401 with a bearer challenge.
func (a *Auth) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || tokenStr == "" {
				api.WriteError(w, errors.Unauthorized("Not authenticated"))
				return
			}

			user, err := a.auth.CurrentUser(tokenStr)
			if err != nil {
				api.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user stored by RequireAuth.
// The second return is false on routes that skipped the middleware.
func UserFromContext(r *http.Request) (domain.User, bool) {
	user, ok := r.Context().Value(userKey).(domain.User)
	return user, ok
}

package mw

import (
	"context"
	"net/http"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/logger"
)

// TokenVerifier resolves a request to a user id, normally from the
// session cookie.
type TokenVerifier interface {
	UserIDFromRequest(r *http.Request) (string, error)
}

type ctxKey int

const userIDKey ctxKey = iota

// UserID returns the authenticated user id stored by RequireUser,
// empty when the request was not authenticated.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// RequireUser rejects requests without a valid session token and puts
// the user id on the request context.
func RequireUser(verifier TokenVerifier, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := verifier.UserIDFromRequest(r)
			if err != nil {
				log.Debugf("RequireUser: rejected %s %s: %v", r.Method, r.URL.Path, err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

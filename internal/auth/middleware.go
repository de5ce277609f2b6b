package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

type contextKey struct{}

// Middleware resolves the Authorization header and stores the user in the
// request context. Requests without a valid token proceed anonymously.
func Middleware(a Authenticator, log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			user, err := a.Authenticate(r.Context(), token)
			if err != nil {
				log.Warn("authentication failed; continuing anonymously", "err", err)
			}
			if user != nil {
				r = r.WithContext(context.WithValue(r.Context(), contextKey{}, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FromContext returns the signed-in user, or nil for anonymous requests.
func FromContext(ctx context.Context) *User {
	user, _ := ctx.Value(contextKey{}).(*User)
	return user
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}

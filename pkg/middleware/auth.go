package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/vypar/internal/authclient"
	"github.com/shashiranjanraj/vypar/pkg/logger"
	"github.com/shashiranjanraj/vypar/pkg/response"
)

// Auth verifies the bearer token with the auth collaborator and stores
// the resulting identity in the request context. 401 for bad tokens,
// 503 when the auth service is unreachable.
func Auth(client *authclient.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

			identity, err := client.Verify(r.Context(), token)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("auth rejected", "error", err)
				response.AppError(w, err)
				return
			}

			ctx := authclient.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Superuser rejects authenticated callers that lack the superuser flag.
// Must be mounted after Auth.
func Superuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authclient.FromContext(r.Context())
		if !ok || !identity.IsSuperuser {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

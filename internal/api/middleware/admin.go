package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/phrazzld/noteflow-api/internal/api/shared"
)

// AdminMiddleware guards privileged routes with a static bearer token.
// The external cron scheduler that triggers the daily fanout presents this
// token instead of a user JWT.
type AdminMiddleware struct {
	token string
}

// NewAdminMiddleware creates a new AdminMiddleware with the given token.
func NewAdminMiddleware(token string) *AdminMiddleware {
	return &AdminMiddleware{
		token: token,
	}
}

// Authorize checks the Authorization header against the configured admin
// token. Comparison is constant-time.
func (m *AdminMiddleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(m.token)) != 1 {
			shared.RespondWithError(w, r, http.StatusForbidden, "Invalid admin token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

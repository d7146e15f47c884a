package catalog

import (
	"net/http"

	"GardenRosas/pkg/kit"
)

const (
	userIDHeader   = "X-User-Id"
	userRoleHeader = "X-User-Role"

	roleAdmin = "admin"
)

// RequireAdmin trusts the identity headers the gateway injects after
// verifying the bearer token. The catalog service itself never sees
// credentials; it only refuses mutations that arrive without an admin
// identity.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(userIDHeader) == "" {
			kit.WriteError(w, r, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		if r.Header.Get(userRoleHeader) != roleAdmin {
			kit.WriteError(w, r, http.StatusForbidden, "admin role required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package auth

import (
	"net/http"
	"strings"

	"github.com/taskflow-hq/taskflow/internal/platform/httpx"
	"github.com/taskflow-hq/taskflow/internal/store"
)

// BearerToken extracts the bearer token from the Authorization header.
// Returns the empty string when no token is present.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// RequireSession rejects requests without a valid session token before any
// handler runs, and places the resolved session in the request context.
func RequireSession(tm *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := tm.Resolve(BearerToken(r))
			if err != nil {
				httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))
		})
	}
}

// RequireRole rejects requests without a valid session with 401, and
// requests whose session role is not in the allowed set with 403.
func RequireRole(tm *TokenManager, allowed ...store.Role) func(http.Handler) http.Handler {
	set := make(map[store.Role]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := tm.Resolve(BearerToken(r))
			if err != nil {
				httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if _, ok := set[sess.Role]; !ok {
				httpx.Error(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))
		})
	}
}

package middleware

import (
	"net/http"
	"strings"

	"homelet/pkg/identity"
	"homelet/pkg/logger"
)

// Authenticate resolves the bearer token into an actor id and attaches
// it to the request context. Requests without a valid identity pass
// through with no actor set; the admission controller owns the
// Unauthenticated rejection so the short-circuit is testable without a
// simulated request lifecycle.
func Authenticate(provider identity.Provider, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			actorID, err := provider.ActorFromToken(tokenString)
			if err != nil {
				log.Warn("Rejected bearer token",
					"path", r.URL.Path,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithActor(r.Context(), actorID)))
		})
	}
}

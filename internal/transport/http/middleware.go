package http

import (
	"context"
	"net/http"
	"strings"

	"finergy-service/internal/domain"
)

type contextKey struct{ name string }

var identityKey = contextKey{"identity"}

// requireAuth resolves the bearer token and stashes the identity in the
// request context. Requests without a valid session get 401.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := h.auth.Identify(r.Context(), bearerToken(r))
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}

func identityFrom(ctx context.Context) domain.Identity {
	identity, _ := ctx.Value(identityKey).(domain.Identity)
	return identity
}

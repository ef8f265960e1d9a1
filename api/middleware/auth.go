package middleware

import (
	"net/http"
	"strings"

	"github.com/openstorehq/openstore-backend/api/responses"
	"github.com/openstorehq/openstore-backend/internal/identity"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
	"github.com/openstorehq/openstore-backend/pkg/logger"
)

const bearerScheme = "Bearer "

// BearerAuth validates a bearer token and seeds the request context with the
// resolved principal. Resolution re-reads the user row, so a token minted
// before a deactivation stops working immediately.
func BearerAuth(resolver identity.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Anything other than a Bearer credential is treated as absent,
			// not as a bad token.
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if len(raw) < len(bearerScheme) || !strings.EqualFold(raw[:len(bearerScheme)], bearerScheme) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := strings.TrimSpace(raw[len(bearerScheme):])
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			principal, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithUserID(r.Context(), principal.UserID.String())
			ctx = WithRole(ctx, string(principal.Role))

			if logg != nil {
				ctx = logg.WithUserID(ctx, principal.UserID.String())
				ctx = logg.WithActorRole(ctx, string(principal.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

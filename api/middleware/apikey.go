package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/openstorehq/openstore-backend/api/responses"
	"github.com/openstorehq/openstore-backend/pkg/db/models"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
	"github.com/openstorehq/openstore-backend/pkg/logger"
	"github.com/openstorehq/openstore-backend/pkg/security"
)

const apiKeyHeader = "x-api-key"

type merchantKeyFinder interface {
	FindByAPIKey(ctx context.Context, key string) (*models.Merchant, error)
}

// APIKeyAuth authenticates storefront callers by merchant API key. All
// denials are 401; the key either identifies an active merchant or the
// caller is not authenticated at all.
func APIKeyAuth(merchants merchantKeyFinder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(apiKeyHeader))
			if key == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "API key is required"))
				return
			}
			if !security.HasAPIKeyPrefix(key) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid API key format"))
				return
			}

			merchant, err := merchants.FindByAPIKey(r.Context(), key)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid API key"))
				return
			}
			if !merchant.IsActive {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "merchant account is inactive"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxAPIMerchant, merchant)
			ctx = WithMerchantID(ctx, merchant.ID.String())

			if logg != nil {
				ctx = logg.WithMerchantID(ctx, merchant.ID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

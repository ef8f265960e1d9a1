package controllers

import (
	"net/http"

	"github.com/openstorehq/openstore-backend/api/middleware"
	"github.com/openstorehq/openstore-backend/api/responses"
	"github.com/openstorehq/openstore-backend/internal/merchants"
	"github.com/openstorehq/openstore-backend/internal/products"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
	"github.com/openstorehq/openstore-backend/pkg/logger"
)

// StorefrontProfile returns the public profile for the merchant resolved
// by API key. The payload never carries the key or the owner id.
func StorefrontProfile(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchant := middleware.APIMerchantFromContext(r.Context())
		if merchant == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "merchant context missing"))
			return
		}

		responses.WriteSuccess(w, merchants.NewPublicMerchantDTO(merchant))
	}
}

// StorefrontProducts returns the catalog for the merchant resolved by API
// key.
func StorefrontProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		merchant := middleware.APIMerchantFromContext(r.Context())
		if merchant == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "merchant context missing"))
			return
		}

		list, err := svc.List(r.Context(), merchant.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

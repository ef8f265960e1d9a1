package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openstorehq/openstore-backend/api/responses"
	"github.com/openstorehq/openstore-backend/pkg/db/models"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
	"github.com/openstorehq/openstore-backend/pkg/logger"
)

const merchantIDHeader = "x-merchant-id"

type merchantFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
}

// merchantIDExtractors run in order; the first non-empty hit wins. Later
// sources never override an earlier one.
var merchantIDExtractors = []func(r *http.Request) string{
	func(r *http.Request) string { return chi.URLParam(r, "merchantId") },
	func(r *http.Request) string { return chi.URLParam(r, "merchant_id") },
	func(r *http.Request) string { return r.URL.Query().Get("merchant_id") },
	extractMerchantIDFromBody,
	func(r *http.Request) string { return r.Header.Get(merchantIDHeader) },
}

// MerchantOwner resolves the target merchant from the request and requires
// the authenticated user to be its owner. Runs after BearerAuth.
func MerchantOwner(merchants merchantFinder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromContext(r.Context())
			if userID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "not authenticated"))
				return
			}

			var merchantID string
			for _, extract := range merchantIDExtractors {
				if v := strings.TrimSpace(extract(r)); v != "" {
					merchantID = v
					break
				}
			}
			if merchantID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "merchant id required"))
				return
			}

			parsed, err := uuid.Parse(merchantID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found"))
				return
			}

			merchant, err := merchants.FindByID(r.Context(), parsed)
			if err != nil {
				// Same denial either way; a store outage keeps its cause for
				// the error dump.
				denial := pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					denial = pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "merchant not found")
				}
				responses.WriteError(r.Context(), logg, w, denial)
				return
			}

			if merchant.OwnerID.String() != userID {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "access denied"))
				return
			}

			ctx := WithMerchantID(r.Context(), merchant.ID.String())
			if logg != nil {
				ctx = logg.WithMerchantID(ctx, merchant.ID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractMerchantIDFromBody peeks at a JSON body for a merchant_id field and
// restores the body for downstream handlers.
func extractMerchantIDFromBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "application/json") {
		return ""
	}

	payload, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(payload))
	if err != nil || len(payload) == 0 {
		return ""
	}

	var body struct {
		MerchantID string `json:"merchant_id"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.MerchantID
}

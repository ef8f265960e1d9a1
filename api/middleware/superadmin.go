package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openstorehq/openstore-backend/api/responses"
	"github.com/openstorehq/openstore-backend/pkg/db/models"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
	"github.com/openstorehq/openstore-backend/pkg/logger"
)

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RequireSuperAdmin gates platform administration routes. The role check
// re-reads the user row rather than trusting the context, so a demotion
// takes effect on the next request. Runs after BearerAuth.
func RequireSuperAdmin(users userFinder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromContext(r.Context())
			if userID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "not authenticated"))
				return
			}

			parsed, err := uuid.Parse(userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "user profile not found"))
				return
			}

			user, err := users.FindByID(r.Context(), parsed)
			if err != nil {
				denial := pkgerrors.New(pkgerrors.CodeForbidden, "user profile not found")
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					denial = pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "user profile not found")
				}
				responses.WriteError(r.Context(), logg, w, denial)
				return
			}

			if !user.Role.CanAdministerPlatform() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "super admin privileges required"))
				return
			}

			ctx := WithRole(r.Context(), string(user.Role))
			if logg != nil {
				ctx = logg.WithActorRole(ctx, string(user.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

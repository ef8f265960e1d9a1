package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgauth "github.com/openstorehq/openstore-backend/pkg/auth"
	"github.com/openstorehq/openstore-backend/pkg/config"
	"github.com/openstorehq/openstore-backend/pkg/db/models"
	"github.com/openstorehq/openstore-backend/pkg/enums"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
)

// Principal is the authenticated caller seen by downstream handlers. Role
// comes from the user row read during resolution, never from token claims.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   enums.Role
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Resolver turns a bearer token into a Principal backed by a fresh user read.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Principal, error)
}

type resolver struct {
	jwtCfg config.JWTConfig
	users  userFinder
}

// NewResolver builds a token resolver over the tenant user store.
func NewResolver(jwtCfg config.JWTConfig, users userFinder) (Resolver, error) {
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &resolver{jwtCfg: jwtCfg, users: users}, nil
}

// Resolve validates the token signature and expiry, then re-reads the user
// row so revoked or deactivated accounts are cut off before token expiry.
func (r *resolver) Resolve(ctx context.Context, token string) (*Principal, error) {
	claims, err := pkgauth.ParseAccessToken(r.jwtCfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid or expired token")
	}

	user, err := r.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid or expired token")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token")
	}

	return &Principal{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

package merchants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openstorehq/openstore-backend/pkg/db"
	"github.com/openstorehq/openstore-backend/pkg/db/models"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
	"github.com/openstorehq/openstore-backend/pkg/security"
)

type merchantRepository interface {
	Create(ctx context.Context, merchant *models.Merchant) (*models.Merchant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*models.Merchant, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Merchant, error)
	Update(ctx context.Context, merchant *models.Merchant) (*models.Merchant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// CreateMerchantInput captures the fields accepted when opening a storefront.
type CreateMerchantInput struct {
	BusinessName string
	Subdomain    string
	CategoryID   *uuid.UUID
}

// UpdateMerchantInput captures the mutable merchant fields. OwnerID and
// APIKey are never updatable through this path.
type UpdateMerchantInput struct {
	BusinessName *string
	Subdomain    *string
}

// Service exposes merchant operations.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateMerchantInput) (*MerchantDTO, error)
	ListOwn(ctx context.Context, ownerID uuid.UUID) ([]MerchantDTO, error)
	Get(ctx context.Context, ownerID, merchantID uuid.UUID) (*MerchantDTO, error)
	Update(ctx context.Context, merchantID uuid.UUID, input UpdateMerchantInput) (*MerchantDTO, error)
	Delete(ctx context.Context, merchantID uuid.UUID) error
	RotateAPIKey(ctx context.Context, merchantID uuid.UUID) (*MerchantDTO, error)
}

type service struct {
	repo       merchantRepository
	categories categoryFinder
}

// NewService builds a merchant service with the provided repositories.
func NewService(repo merchantRepository, categories categoryFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("merchant repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, categories: categories}, nil
}

// Create opens a new storefront. The subdomain check is check-then-act; a
// concurrent loser of the race hits the unique index and still surfaces as
// a conflict.
func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateMerchantInput) (*MerchantDTO, error) {
	subdomain := strings.TrimSpace(input.Subdomain)
	if subdomain == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subdomain is required")
	}
	businessName := strings.TrimSpace(input.BusinessName)
	if businessName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name is required")
	}

	if _, err := s.repo.FindBySubdomain(ctx, subdomain); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "subdomain already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check subdomain")
	}

	if input.CategoryID != nil {
		category, err := s.categories.FindByID(ctx, *input.CategoryID)
		if err != nil || !category.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category not found or inactive")
		}
	}

	apiKey, err := security.GenerateAPIKey()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate api key")
	}

	merchant := &models.Merchant{
		OwnerID:      ownerID,
		BusinessName: businessName,
		Subdomain:    subdomain,
		APIKey:       apiKey,
		CategoryID:   input.CategoryID,
		IsActive:     true,
	}

	created, err := s.repo.Create(ctx, merchant)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "subdomain already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create merchant")
	}
	return NewMerchantDTO(created), nil
}

func (s *service) ListOwn(ctx context.Context, ownerID uuid.UUID) ([]MerchantDTO, error) {
	merchants, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list merchants")
	}
	return NewMerchantDTOs(merchants), nil
}

func (s *service) Get(ctx context.Context, ownerID, merchantID uuid.UUID) (*MerchantDTO, error) {
	merchant, err := s.repo.FindByID(ctx, merchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load merchant")
	}
	if merchant.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	return NewMerchantDTO(merchant), nil
}

// Update mutates business name and subdomain. A subdomain rename runs a
// self-excluding uniqueness check so saving the current value is a no-op.
func (s *service) Update(ctx context.Context, merchantID uuid.UUID, input UpdateMerchantInput) (*MerchantDTO, error) {
	merchant, err := s.repo.FindByID(ctx, merchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load merchant")
	}

	if input.Subdomain != nil {
		subdomain := strings.TrimSpace(*input.Subdomain)
		if subdomain == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "subdomain is required")
		}
		if subdomain != merchant.Subdomain {
			existing, err := s.repo.FindBySubdomain(ctx, subdomain)
			if err == nil && existing.ID != merchant.ID {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "subdomain already in use")
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check subdomain")
			}
			merchant.Subdomain = subdomain
		}
	}

	if input.BusinessName != nil {
		name := strings.TrimSpace(*input.BusinessName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name is required")
		}
		merchant.BusinessName = name
	}

	updated, err := s.repo.Update(ctx, merchant)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "subdomain already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update merchant")
	}
	return NewMerchantDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, merchantID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, merchantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load merchant")
	}
	if err := s.repo.Delete(ctx, merchantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete merchant")
	}
	return nil
}

// RotateAPIKey replaces the key in one write. The old key stops resolving
// as soon as the row is saved; there is no overlap window.
func (s *service) RotateAPIKey(ctx context.Context, merchantID uuid.UUID) (*MerchantDTO, error) {
	merchant, err := s.repo.FindByID(ctx, merchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load merchant")
	}

	apiKey, err := security.GenerateAPIKey()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate api key")
	}
	merchant.APIKey = apiKey

	updated, err := s.repo.Update(ctx, merchant)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate api key")
	}
	return NewMerchantDTO(updated), nil
}

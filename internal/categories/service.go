package categories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openstorehq/openstore-backend/pkg/attributes"
	"github.com/openstorehq/openstore-backend/pkg/db"
	"github.com/openstorehq/openstore-backend/pkg/db/models"
	"github.com/openstorehq/openstore-backend/pkg/db/types"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
)

type categoryRepository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListActive(ctx context.Context) ([]models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type merchantCounter interface {
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// CreateCategoryInput captures the admin-facing category fields.
type CreateCategoryInput struct {
	Name            string
	Description     *string
	Slug            string
	ParentID        *uuid.UUID
	ImageURL        *string
	SortOrder       int
	AttributeSchema []attributes.Definition
}

// UpdateCategoryInput captures the mutable category fields. ParentID is
// fixed at creation and cannot be reassigned.
type UpdateCategoryInput struct {
	Name            *string
	Description     *string
	Slug            *string
	ImageURL        *string
	IsActive        *bool
	SortOrder       *int
	AttributeSchema []attributes.Definition
}

// Service exposes category operations for both the public and admin surfaces.
type Service interface {
	ListActive(ctx context.Context) ([]CategoryDTO, error)
	GetActive(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	List(ctx context.Context) ([]CategoryDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	Create(ctx context.Context, createdBy uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      categoryRepository
	merchants merchantCounter
}

// NewService builds a category service with the provided repositories.
func NewService(repo categoryRepository, merchants merchantCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if merchants == nil {
		return nil, fmt.Errorf("merchant repository required")
	}
	return &service{repo: repo, merchants: merchants}, nil
}

func (s *service) ListActive(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return NewCategoryDTOs(categories), nil
}

// GetActive serves the public surface; inactive categories look deleted.
func (s *service) GetActive(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return NewCategoryDTO(category), nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return NewCategoryDTOs(categories), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewCategoryDTO(category), nil
}

func (s *service) Create(ctx context.Context, createdBy uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	if err := validateSchema(input.AttributeSchema); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check slug")
	}

	if input.ParentID != nil {
		if _, err := s.repo.FindByID(ctx, *input.ParentID); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "parent category not found")
		}
	}

	category := &models.Category{
		Name:            name,
		Description:     input.Description,
		Slug:            slug,
		ParentID:        input.ParentID,
		ImageURL:        input.ImageURL,
		IsActive:        true,
		SortOrder:       input.SortOrder,
		AttributeSchema: types.AttributeSchema(input.AttributeSchema),
		CreatedBy:       createdBy,
	}

	created, err := s.repo.Create(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return NewCategoryDTO(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
		}
		if slug != category.Slug {
			existing, err := s.repo.FindBySlug(ctx, slug)
			if err == nil && existing.ID != category.ID {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check slug")
			}
			category.Slug = slug
		}
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.ImageURL != nil {
		category.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}
	if input.AttributeSchema != nil {
		if err := validateSchema(input.AttributeSchema); err != nil {
			return nil, err
		}
		category.AttributeSchema = types.AttributeSchema(input.AttributeSchema)
	}

	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}
	return NewCategoryDTO(updated), nil
}

// Delete refuses to remove a category any merchant still references.
// Products keep their snapshot schema either way; the guard protects
// merchant storefront configuration, not product history.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadCategory(ctx, id); err != nil {
		return err
	}

	inUse, err := s.merchants.CountByCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check category references")
	}
	if inUse > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category is referenced by merchants")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}

func (s *service) loadCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}
	return category, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the name and collapses non-alphanumeric runs to hyphens.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func validateSchema(schema []attributes.Definition) error {
	seen := map[string]bool{}
	for _, def := range schema {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "attribute definitions require a name")
		}
		if seen[name] {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate attribute definition '%s'", name))
		}
		seen[name] = true

		switch def.Type {
		case attributes.TypeString, attributes.TypeNumber, attributes.TypeBoolean:
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("attribute '%s' has unknown type '%s'", name, def.Type))
		}
	}
	return nil
}

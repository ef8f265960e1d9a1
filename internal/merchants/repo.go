package merchants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openstorehq/openstore-backend/pkg/db/models"
)

// Repository exposes merchant persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a merchants repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new merchant.
func (r *Repository) Create(ctx context.Context, merchant *models.Merchant) (*models.Merchant, error) {
	if err := r.db.WithContext(ctx).Create(merchant).Error; err != nil {
		return nil, err
	}
	return merchant, nil
}

// FindByID loads a merchant by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).First(&merchant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

// FindByAPIKey loads a merchant by its API key. Key matching is exact.
func (r *Repository) FindByAPIKey(ctx context.Context, key string) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Where("api_key = ?", key).First(&merchant).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

// FindBySubdomain loads a merchant by exact subdomain. The column is
// case-sensitive; "Shop" and "shop" are different subdomains.
func (r *Repository) FindBySubdomain(ctx context.Context, subdomain string) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&merchant).Error; err != nil {
		return nil, err
	}
	return &merchant, nil
}

// ListByOwner returns all merchants owned by the user, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Merchant, error) {
	var merchants []models.Merchant
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&merchants).Error; err != nil {
		return nil, err
	}
	return merchants, nil
}

// Update persists the merchant row.
func (r *Repository) Update(ctx context.Context, merchant *models.Merchant) (*models.Merchant, error) {
	if err := r.db.WithContext(ctx).Save(merchant).Error; err != nil {
		return nil, err
	}
	return merchant, nil
}

// Delete removes the merchant and its products.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Product{}, "merchant_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Merchant{}, "id = ?", id).Error
	})
}

// List returns a page of merchants, optionally filtered by a search term
// over business name and subdomain.
func (r *Repository) List(ctx context.Context, search string, offset, limit int) ([]models.Merchant, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Merchant{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("business_name ILIKE ? OR subdomain ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var merchants []models.Merchant
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&merchants).Error; err != nil {
		return nil, 0, err
	}
	return merchants, total, nil
}

// Count returns the number of merchants, optionally only active ones.
func (r *Repository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Merchant{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var total int64
	err := query.Count(&total).Error
	return total, err
}

// CountByCategory reports how many merchants reference the category.
func (r *Repository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Merchant{}).
		Where("category_id = ?", categoryID).
		Count(&total).Error
	return total, err
}

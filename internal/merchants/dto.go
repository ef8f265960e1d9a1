package merchants

import (
	"time"

	"github.com/google/uuid"

	"github.com/openstorehq/openstore-backend/pkg/db/models"
)

// MerchantDTO is the merchant payload returned to its owner. It includes
// the API key; admin and public surfaces use narrower DTOs.
type MerchantDTO struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	BusinessName string     `json:"business_name"`
	Subdomain    string     `json:"subdomain"`
	APIKey       string     `json:"api_key"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PublicMerchantDTO is the storefront profile payload. No API key, no owner.
type PublicMerchantDTO struct {
	ID           uuid.UUID  `json:"id"`
	BusinessName string     `json:"business_name"`
	Subdomain    string     `json:"subdomain"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
}

// NewMerchantDTO maps the persisted model to the owner-facing payload.
func NewMerchantDTO(merchant *models.Merchant) *MerchantDTO {
	return &MerchantDTO{
		ID:           merchant.ID,
		OwnerID:      merchant.OwnerID,
		BusinessName: merchant.BusinessName,
		Subdomain:    merchant.Subdomain,
		APIKey:       merchant.APIKey,
		CategoryID:   merchant.CategoryID,
		IsActive:     merchant.IsActive,
		CreatedAt:    merchant.CreatedAt,
		UpdatedAt:    merchant.UpdatedAt,
	}
}

// NewPublicMerchantDTO maps the model to the storefront profile payload.
func NewPublicMerchantDTO(merchant *models.Merchant) *PublicMerchantDTO {
	return &PublicMerchantDTO{
		ID:           merchant.ID,
		BusinessName: merchant.BusinessName,
		Subdomain:    merchant.Subdomain,
		CategoryID:   merchant.CategoryID,
	}
}

// NewMerchantDTOs maps a slice of models.
func NewMerchantDTOs(merchants []models.Merchant) []MerchantDTO {
	out := make([]MerchantDTO, 0, len(merchants))
	for i := range merchants {
		out = append(out, *NewMerchantDTO(&merchants[i]))
	}
	return out
}

package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/openstorehq/openstore-backend/pkg/attributes"
	"github.com/openstorehq/openstore-backend/pkg/db/models"
)

// CategoryDTO is the category payload returned to clients.
type CategoryDTO struct {
	ID              uuid.UUID               `json:"id"`
	Name            string                  `json:"name"`
	Description     *string                 `json:"description,omitempty"`
	Slug            string                  `json:"slug"`
	ParentID        *uuid.UUID              `json:"parent_id,omitempty"`
	ImageURL        *string                 `json:"image_url,omitempty"`
	IsActive        bool                    `json:"is_active"`
	SortOrder       int                     `json:"sort_order"`
	AttributeSchema []attributes.Definition `json:"attribute_schema"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// NewCategoryDTO maps the persisted model to the client payload.
func NewCategoryDTO(category *models.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:              category.ID,
		Name:            category.Name,
		Description:     category.Description,
		Slug:            category.Slug,
		ParentID:        category.ParentID,
		ImageURL:        category.ImageURL,
		IsActive:        category.IsActive,
		SortOrder:       category.SortOrder,
		AttributeSchema: category.AttributeSchema.Definitions(),
		CreatedAt:       category.CreatedAt,
		UpdatedAt:       category.UpdatedAt,
	}
}

// NewCategoryDTOs maps a slice of models.
func NewCategoryDTOs(categories []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *NewCategoryDTO(&categories[i]))
	}
	return out
}

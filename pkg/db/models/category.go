package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/openstorehq/openstore-backend/pkg/db/types"
)

// Category is a global taxonomy node shared by all tenants. ParentID is
// assigned at creation only, from an existing category or null, so the tree
// cannot contain cycles. AttributeSchema constrains products bound to it.
type Category struct {
	ID              uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string                `gorm:"column:name;not null"`
	Description     *string               `gorm:"column:description"`
	Slug            string                `gorm:"column:slug;not null;uniqueIndex"`
	ParentID        *uuid.UUID            `gorm:"column:parent_id;type:uuid"`
	ImageURL        *string               `gorm:"column:image_url"`
	IsActive        bool                  `gorm:"column:is_active;not null;default:true"`
	SortOrder       int                   `gorm:"column:sort_order;not null;default:0"`
	AttributeSchema types.AttributeSchema `gorm:"column:attribute_schema;type:jsonb;not null;default:'[]'"`
	CreatedBy       uuid.UUID             `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Merchant represents one tenant storefront. OwnerID is immutable after
// creation; Subdomain and APIKey are globally unique.
type Merchant struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID      uuid.UUID  `gorm:"column:owner_id;type:uuid;not null"`
	BusinessName string     `gorm:"column:business_name;not null"`
	Subdomain    string     `gorm:"column:subdomain;not null;uniqueIndex"`
	APIKey       string     `gorm:"column:api_key;not null;uniqueIndex"`
	CategoryID   *uuid.UUID `gorm:"column:category_id;type:uuid"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

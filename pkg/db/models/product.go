package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/openstorehq/openstore-backend/pkg/db/types"
)

// Product belongs to exactly one merchant. CategoryID is copied from the
// merchant at creation time and never re-resolved afterwards, so attribute
// validation on later updates runs against the schema the product was
// created under.
type Product struct {
	ID          uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	MerchantID  uuid.UUID          `gorm:"column:merchant_id;type:uuid;not null;index"`
	CategoryID  uuid.UUID          `gorm:"column:category_id;type:uuid;not null"`
	Name        string             `gorm:"column:name;not null"`
	Description *string            `gorm:"column:description"`
	BasePrice   decimal.Decimal    `gorm:"column:base_price;type:numeric(12,2);not null"`
	StockLevel  int                `gorm:"column:stock_level;not null;default:0"`
	Attributes  types.AttributeMap `gorm:"column:attributes;type:jsonb;not null;default:'{}'"`
	ImageURLs   pq.StringArray     `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

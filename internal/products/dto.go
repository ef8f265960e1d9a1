package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openstorehq/openstore-backend/pkg/attributes"
	"github.com/openstorehq/openstore-backend/pkg/db/models"
)

// ProductDTO is the product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	MerchantID  uuid.UUID       `json:"merchant_id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price"`
	StockLevel  int             `json:"stock_level"`
	Attributes  attributes.Map  `json:"attributes"`
	ImageURLs   []string        `json:"image_urls"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewProductDTO maps the persisted model to the client payload.
func NewProductDTO(product *models.Product) *ProductDTO {
	attrs := product.Attributes.AsMap()
	if attrs == nil {
		attrs = attributes.Map{}
	}
	return &ProductDTO{
		ID:          product.ID,
		MerchantID:  product.MerchantID,
		CategoryID:  product.CategoryID,
		Name:        product.Name,
		Description: product.Description,
		BasePrice:   product.BasePrice,
		StockLevel:  product.StockLevel,
		Attributes:  attrs,
		ImageURLs:   append([]string{}, product.ImageURLs...),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// NewProductDTOs maps a slice of models.
func NewProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *NewProductDTO(&products[i]))
	}
	return out
}

package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openstorehq/openstore-backend/pkg/attributes"
	"github.com/openstorehq/openstore-backend/pkg/db/models"
	"github.com/openstorehq/openstore-backend/pkg/db/types"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
)

type productRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByIDForMerchant(ctx context.Context, id, merchantID uuid.UUID) (*models.Product, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteForMerchant(ctx context.Context, id, merchantID uuid.UUID) error
}

type merchantFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
}

type categoryFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// CreateProductInput captures the fields accepted when listing a product.
type CreateProductInput struct {
	Name        string
	Description *string
	BasePrice   decimal.Decimal
	StockLevel  int
	Attributes  attributes.Map
	ImageURLs   []string
}

// UpdateProductInput captures the mutable product fields. A nil Attributes
// map leaves stored attributes untouched; a non-nil map is merged in.
type UpdateProductInput struct {
	Name        *string
	Description *string
	BasePrice   *decimal.Decimal
	StockLevel  *int
	Attributes  attributes.Map
	ImageURLs   []string
}

// Service exposes merchant-scoped catalog operations.
type Service interface {
	Create(ctx context.Context, merchantID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Get(ctx context.Context, merchantID, productID uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, merchantID uuid.UUID) ([]ProductDTO, error)
	Update(ctx context.Context, merchantID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, merchantID, productID uuid.UUID) error
}

type service struct {
	repo       productRepository
	merchants  merchantFinder
	categories categoryFinder
}

// NewService builds a product service with the provided repositories.
func NewService(repo productRepository, merchants merchantFinder, categories categoryFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if merchants == nil {
		return nil, fmt.Errorf("merchant repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, merchants: merchants, categories: categories}, nil
}

// Create validates the payload against the merchant's current category
// schema and copies that category id onto the product. The copy is a
// snapshot; later merchant category changes never touch existing products.
func (s *service) Create(ctx context.Context, merchantID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.BasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base price must be non-negative")
	}
	if input.StockLevel < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock level must be non-negative")
	}

	merchant, err := s.merchants.FindByID(ctx, merchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load merchant")
	}
	if merchant.CategoryID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant has no category assigned")
	}

	schema, err := s.schemaFor(ctx, *merchant.CategoryID)
	if err != nil {
		return nil, err
	}

	attrs := input.Attributes
	if attrs == nil {
		attrs = attributes.Map{}
	}
	if err := attributes.Validate(schema, attrs); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	product := &models.Product{
		MerchantID:  merchantID,
		CategoryID:  *merchant.CategoryID,
		Name:        name,
		Description: input.Description,
		BasePrice:   input.BasePrice,
		StockLevel:  input.StockLevel,
		Attributes:  types.AttributeMap(attrs),
		ImageURLs:   input.ImageURLs,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return NewProductDTO(created), nil
}

func (s *service) Get(ctx context.Context, merchantID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, merchantID, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) List(ctx context.Context, merchantID uuid.UUID) ([]ProductDTO, error) {
	products, err := s.repo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return NewProductDTOs(products), nil
}

// Update merges incoming attributes over stored ones and validates the
// merged map against the product's own category snapshot, never the
// merchant's current category.
func (s *service) Update(ctx context.Context, merchantID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, merchantID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.BasePrice != nil {
		if input.BasePrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "base price must be non-negative")
		}
		product.BasePrice = *input.BasePrice
	}
	if input.StockLevel != nil {
		if *input.StockLevel < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock level must be non-negative")
		}
		product.StockLevel = *input.StockLevel
	}
	if input.ImageURLs != nil {
		product.ImageURLs = input.ImageURLs
	}

	if input.Attributes != nil {
		schema, err := s.schemaFor(ctx, product.CategoryID)
		if err != nil {
			return nil, err
		}

		merged := attributes.Merge(product.Attributes.AsMap(), input.Attributes)
		if err := attributes.Validate(schema, merged); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		product.Attributes = types.AttributeMap(merged)
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return NewProductDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, merchantID, productID uuid.UUID) error {
	if err := s.repo.DeleteForMerchant(ctx, productID, merchantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, merchantID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByIDForMerchant(ctx, productID, merchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func (s *service) schemaFor(ctx context.Context, categoryID uuid.UUID) ([]attributes.Definition, error) {
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category schema")
	}
	return category.AttributeSchema.Definitions(), nil
}

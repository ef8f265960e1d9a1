package products

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openstorehq/openstore-backend/pkg/attributes"
	"github.com/openstorehq/openstore-backend/pkg/db/models"
	"github.com/openstorehq/openstore-backend/pkg/db/types"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
)

type stubProductRepo struct {
	byID map[uuid.UUID]*models.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: map[uuid.UUID]*models.Product{}}
}

func (s *stubProductRepo) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.byID[product.ID] = product
	return product, nil
}

func (s *stubProductRepo) FindByIDForMerchant(_ context.Context, id, merchantID uuid.UUID) (*models.Product, error) {
	if p, ok := s.byID[id]; ok && p.MerchantID == merchantID {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) ListByMerchant(_ context.Context, merchantID uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.byID {
		if p.MerchantID == merchantID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubProductRepo) Update(_ context.Context, product *models.Product) (*models.Product, error) {
	s.byID[product.ID] = product
	return product, nil
}

func (s *stubProductRepo) DeleteForMerchant(_ context.Context, id, merchantID uuid.UUID) error {
	if p, ok := s.byID[id]; ok && p.MerchantID == merchantID {
		delete(s.byID, id)
		return nil
	}
	return gorm.ErrRecordNotFound
}

type stubMerchantFinder struct {
	merchants map[uuid.UUID]*models.Merchant
}

func (s *stubMerchantFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Merchant, error) {
	if m, ok := s.merchants[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubCategoryFinder struct {
	categories map[uuid.UUID]*models.Category
}

func (s *stubCategoryFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if c, ok := s.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fixture struct {
	svc        Service
	repo       *stubProductRepo
	merchant   *models.Merchant
	merchants  *stubMerchantFinder
	categoryID uuid.UUID
}

// newFixture wires a merchant bound to a category requiring a string size
// and an optional numeric weight.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	categoryID := uuid.New()
	category := &models.Category{
		ID:       categoryID,
		Name:     "Apparel",
		Slug:     "apparel",
		IsActive: true,
		AttributeSchema: types.AttributeSchema{
			{Name: "size", Type: attributes.TypeString, Required: true},
			{Name: "weight", Type: attributes.TypeNumber, Required: false},
		},
	}

	merchant := &models.Merchant{
		ID:         uuid.New(),
		OwnerID:    uuid.New(),
		CategoryID: &categoryID,
		IsActive:   true,
	}

	repo := newStubProductRepo()
	merchants := &stubMerchantFinder{merchants: map[uuid.UUID]*models.Merchant{merchant.ID: merchant}}
	categories := &stubCategoryFinder{categories: map[uuid.UUID]*models.Category{categoryID: category}}

	svc, err := NewService(repo, merchants, categories)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{
		svc:        svc,
		repo:       repo,
		merchant:   merchant,
		merchants:  merchants,
		categoryID: categoryID,
	}
}

func (f *fixture) addCategory(t *testing.T, schema types.AttributeSchema) uuid.UUID {
	t.Helper()
	id := uuid.New()
	finder := f.merchantsCategories(t)
	finder.categories[id] = &models.Category{ID: id, Name: "Other", Slug: "other-" + id.String()[:8], IsActive: true, AttributeSchema: schema}
	return id
}

func (f *fixture) merchantsCategories(t *testing.T) *stubCategoryFinder {
	t.Helper()
	svc, ok := f.svc.(*service)
	if !ok {
		t.Fatal("unexpected service implementation")
	}
	finder, ok := svc.categories.(*stubCategoryFinder)
	if !ok {
		t.Fatal("unexpected category finder implementation")
	}
	return finder
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error with code %s, got %v", code, err)
	}
	if typed.Code() != code {
		t.Fatalf("code = %s, want %s (err: %v)", typed.Code(), code, err)
	}
}

func validInput() CreateProductInput {
	return CreateProductInput{
		Name:       "Linen Shirt",
		BasePrice:  decimal.NewFromInt(29),
		StockLevel: 5,
		Attributes: attributes.Map{"size": "M"},
	}
}

func TestCreateCopiesCategorySnapshot(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), f.merchant.ID, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.CategoryID != f.categoryID {
		t.Fatalf("category id = %s, want merchant's category %s", dto.CategoryID, f.categoryID)
	}
}

func TestCreateRequiresMerchantCategory(t *testing.T) {
	f := newFixture(t)
	f.merchant.CategoryID = nil

	_, err := f.svc.Create(context.Background(), f.merchant.ID, validInput())
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateRejectsMissingRequiredAttribute(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.Attributes = attributes.Map{"weight": 1.5}
	_, err := f.svc.Create(context.Background(), f.merchant.ID, input)
	assertCode(t, err, pkgerrors.CodeValidation)
	if !strings.Contains(err.Error(), "attribute 'size' is required") {
		t.Fatalf("error = %v, want required-size message", err)
	}
}

func TestCreateAcceptsUnknownAttributeKeys(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.Attributes = attributes.Map{"size": "M", "color": "blue"}
	dto, err := f.svc.Create(context.Background(), f.merchant.ID, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Attributes["color"] != "blue" {
		t.Fatal("unknown attribute keys must be preserved")
	}
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	f := newFixture(t)

	input := validInput()
	input.BasePrice = decimal.NewFromInt(-1)
	_, err := f.svc.Create(context.Background(), f.merchant.ID, input)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateMergePreservesRequiredAttribute(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), f.merchant.ID, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Incoming map omits the required size; the merge keeps the stored value.
	updated, err := f.svc.Update(context.Background(), f.merchant.ID, dto.ID, UpdateProductInput{
		Attributes: attributes.Map{"weight": 2.5},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Attributes["size"] != "M" {
		t.Fatalf("size = %v, want preserved value", updated.Attributes["size"])
	}
	if updated.Attributes["weight"] != 2.5 {
		t.Fatalf("weight = %v, want 2.5", updated.Attributes["weight"])
	}
}

func TestUpdateValidatesMergedTypeAgainstSchema(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), f.merchant.ID, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.svc.Update(context.Background(), f.merchant.ID, dto.ID, UpdateProductInput{
		Attributes: attributes.Map{"weight": "heavy"},
	})
	assertCode(t, err, pkgerrors.CodeValidation)
	if !strings.Contains(err.Error(), "must be a number") {
		t.Fatalf("error = %v, want number-type message", err)
	}
}

func TestUpdateUsesProductSnapshotNotCurrentMerchantCategory(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), f.merchant.ID, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Rebind the merchant to a category requiring a field the product lacks.
	newCategory := f.addCategory(t, types.AttributeSchema{
		{Name: "material", Type: attributes.TypeString, Required: true},
	})
	f.merchant.CategoryID = &newCategory

	// The update still validates against the product's original schema.
	updated, err := f.svc.Update(context.Background(), f.merchant.ID, dto.ID, UpdateProductInput{
		Attributes: attributes.Map{"weight": 1.0},
	})
	if err != nil {
		t.Fatalf("update should use the snapshot schema: %v", err)
	}
	if updated.CategoryID != f.categoryID {
		t.Fatalf("category id = %s, snapshot must not move", updated.CategoryID)
	}
}

func TestUpdateNilAttributesLeavesStoredMapUntouched(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), f.merchant.ID, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Linen Shirt v2"
	updated, err := f.svc.Update(context.Background(), f.merchant.ID, dto.ID, UpdateProductInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Attributes["size"] != "M" {
		t.Fatalf("attributes changed unexpectedly: %v", updated.Attributes)
	}
}

func TestTenantIsolationOnGetAndDelete(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), f.merchant.ID, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	otherMerchant := uuid.New()
	_, err = f.svc.Get(context.Background(), otherMerchant, dto.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)

	err = f.svc.Delete(context.Background(), otherMerchant, dto.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)

	if _, ok := f.repo.byID[dto.ID]; !ok {
		t.Fatal("cross-tenant delete must not remove the product")
	}
}

package merchants

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openstorehq/openstore-backend/pkg/db/models"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
)

type stubMerchantRepo struct {
	byID        map[uuid.UUID]*models.Merchant
	bySubdomain map[string]*models.Merchant
	createErr   error
}

func newStubMerchantRepo() *stubMerchantRepo {
	return &stubMerchantRepo{
		byID:        map[uuid.UUID]*models.Merchant{},
		bySubdomain: map[string]*models.Merchant{},
	}
}

func (s *stubMerchantRepo) add(m *models.Merchant) *models.Merchant {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.byID[m.ID] = m
	s.bySubdomain[m.Subdomain] = m
	return m
}

func (s *stubMerchantRepo) Create(_ context.Context, merchant *models.Merchant) (*models.Merchant, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.add(merchant), nil
}

func (s *stubMerchantRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Merchant, error) {
	if m, ok := s.byID[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMerchantRepo) FindBySubdomain(_ context.Context, subdomain string) (*models.Merchant, error) {
	if m, ok := s.bySubdomain[subdomain]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMerchantRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Merchant, error) {
	var out []models.Merchant
	for _, m := range s.byID {
		if m.OwnerID == ownerID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *stubMerchantRepo) Update(_ context.Context, merchant *models.Merchant) (*models.Merchant, error) {
	for sub, m := range s.bySubdomain {
		if m.ID == merchant.ID && sub != merchant.Subdomain {
			delete(s.bySubdomain, sub)
		}
	}
	s.byID[merchant.ID] = merchant
	s.bySubdomain[merchant.Subdomain] = merchant
	return merchant, nil
}

func (s *stubMerchantRepo) Delete(_ context.Context, id uuid.UUID) error {
	if m, ok := s.byID[id]; ok {
		delete(s.bySubdomain, m.Subdomain)
		delete(s.byID, id)
		return nil
	}
	return gorm.ErrRecordNotFound
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

func newTestService(t *testing.T, repo *stubMerchantRepo, categories *stubCategoryFinder) Service {
	t.Helper()
	if categories == nil {
		categories = &stubCategoryFinder{categories: map[uuid.UUID]*models.Category{}}
	}
	svc, err := NewService(repo, categories)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
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

func TestCreateGeneratesServerSideAPIKey(t *testing.T) {
	repo := newStubMerchantRepo()
	svc := newTestService(t, repo, nil)

	dto, err := svc.Create(context.Background(), uuid.New(), CreateMerchantInput{
		BusinessName: "Acme Goods",
		Subdomain:    "acme",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !regexp.MustCompile(`^os_live_[0-9a-f]{32}$`).MatchString(dto.APIKey) {
		t.Fatalf("api key %q has unexpected format", dto.APIKey)
	}
	if !dto.IsActive {
		t.Fatal("new merchant should be active")
	}
}

func TestCreateRejectsDuplicateSubdomain(t *testing.T) {
	repo := newStubMerchantRepo()
	repo.add(&models.Merchant{OwnerID: uuid.New(), Subdomain: "acme", BusinessName: "First"})
	svc := newTestService(t, repo, nil)

	_, err := svc.Create(context.Background(), uuid.New(), CreateMerchantInput{
		BusinessName: "Second",
		Subdomain:    "acme",
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateSubdomainMatchIsCaseSensitive(t *testing.T) {
	repo := newStubMerchantRepo()
	repo.add(&models.Merchant{OwnerID: uuid.New(), Subdomain: "acme", BusinessName: "First"})
	svc := newTestService(t, repo, nil)

	if _, err := svc.Create(context.Background(), uuid.New(), CreateMerchantInput{
		BusinessName: "Second",
		Subdomain:    "Acme",
	}); err != nil {
		t.Fatalf("differently-cased subdomain should be accepted: %v", err)
	}
}

func TestCreateRejectsInactiveCategory(t *testing.T) {
	repo := newStubMerchantRepo()
	categoryID := uuid.New()
	categories := &stubCategoryFinder{categories: map[uuid.UUID]*models.Category{
		categoryID: {ID: categoryID, Name: "Apparel", IsActive: false},
	}}
	svc := newTestService(t, repo, categories)

	_, err := svc.Create(context.Background(), uuid.New(), CreateMerchantInput{
		BusinessName: "Acme",
		Subdomain:    "acme",
		CategoryID:   &categoryID,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateSurfacesUniqueViolationAsConflict(t *testing.T) {
	repo := newStubMerchantRepo()
	repo.createErr = errors.New(`pq: duplicate key value violates unique constraint "idx_merchants_subdomain"`)
	svc := newTestService(t, repo, nil)

	_, err := svc.Create(context.Background(), uuid.New(), CreateMerchantInput{
		BusinessName: "Acme",
		Subdomain:    "acme",
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestGetRejectsNonOwner(t *testing.T) {
	repo := newStubMerchantRepo()
	merchant := repo.add(&models.Merchant{OwnerID: uuid.New(), Subdomain: "acme", BusinessName: "Acme"})
	svc := newTestService(t, repo, nil)

	_, err := svc.Get(context.Background(), uuid.New(), merchant.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateRenameToTakenSubdomain(t *testing.T) {
	repo := newStubMerchantRepo()
	repo.add(&models.Merchant{OwnerID: uuid.New(), Subdomain: "taken", BusinessName: "Other"})
	merchant := repo.add(&models.Merchant{OwnerID: uuid.New(), Subdomain: "mine", BusinessName: "Mine"})
	svc := newTestService(t, repo, nil)

	taken := "taken"
	_, err := svc.Update(context.Background(), merchant.ID, UpdateMerchantInput{Subdomain: &taken})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestUpdateKeepingOwnSubdomainIsNoop(t *testing.T) {
	repo := newStubMerchantRepo()
	merchant := repo.add(&models.Merchant{OwnerID: uuid.New(), Subdomain: "mine", BusinessName: "Mine"})
	svc := newTestService(t, repo, nil)

	same := "mine"
	name := "Mine Renamed"
	dto, err := svc.Update(context.Background(), merchant.ID, UpdateMerchantInput{
		Subdomain:    &same,
		BusinessName: &name,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.BusinessName != "Mine Renamed" {
		t.Fatalf("business name = %q", dto.BusinessName)
	}
	if dto.Subdomain != "mine" {
		t.Fatalf("subdomain = %q", dto.Subdomain)
	}
}

func TestRotateAPIKeyReplacesKey(t *testing.T) {
	repo := newStubMerchantRepo()
	merchant := repo.add(&models.Merchant{
		OwnerID:      uuid.New(),
		Subdomain:    "acme",
		BusinessName: "Acme",
		APIKey:       "os_live_00112233445566778899aabbccddeeff",
	})
	svc := newTestService(t, repo, nil)

	dto, err := svc.RotateAPIKey(context.Background(), merchant.ID)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if dto.APIKey == "os_live_00112233445566778899aabbccddeeff" {
		t.Fatal("rotated key must differ from the old key")
	}
	if !regexp.MustCompile(`^os_live_[0-9a-f]{32}$`).MatchString(dto.APIKey) {
		t.Fatalf("rotated key %q has unexpected format", dto.APIKey)
	}
}

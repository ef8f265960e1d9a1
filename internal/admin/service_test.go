package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openstorehq/openstore-backend/pkg/db/models"
	"github.com/openstorehq/openstore-backend/pkg/enums"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
	"github.com/openstorehq/openstore-backend/pkg/pagination"
)

type stubUserRepo struct {
	byID         map[uuid.UUID]*models.User
	total        int64
	recent       int64
	countErr     error
	updatedRole  enums.Role
	deletedID    uuid.UUID
	deleteCalled bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: map[uuid.UUID]*models.User{}}
}

func (s *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) List(_ context.Context, _, _ int) ([]models.User, int64, error) {
	out := make([]models.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, *u)
	}
	return out, s.total, nil
}

func (s *stubUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role enums.Role) error {
	s.updatedRole = role
	if u, ok := s.byID[id]; ok {
		u.Role = role
	}
	return nil
}

func (s *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleteCalled = true
	s.deletedID = id
	delete(s.byID, id)
	return nil
}

func (s *stubUserRepo) Count(_ context.Context) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.total, nil
}

func (s *stubUserRepo) CountCreatedSince(_ context.Context, _ time.Time) (int64, error) {
	return s.recent, nil
}

type stubMerchantRepo struct {
	byID        map[uuid.UUID]*models.Merchant
	total       int64
	active      int64
	updated     *models.Merchant
	deletedID   uuid.UUID
	lastSearch  string
	lastOffset  int
	lastLimit   int
	listResults []models.Merchant
}

func newStubMerchantRepo() *stubMerchantRepo {
	return &stubMerchantRepo{byID: map[uuid.UUID]*models.Merchant{}}
}

func (s *stubMerchantRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Merchant, error) {
	if m, ok := s.byID[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMerchantRepo) List(_ context.Context, search string, offset, limit int) ([]models.Merchant, int64, error) {
	s.lastSearch = search
	s.lastOffset = offset
	s.lastLimit = limit
	return s.listResults, s.total, nil
}

func (s *stubMerchantRepo) Update(_ context.Context, merchant *models.Merchant) (*models.Merchant, error) {
	s.updated = merchant
	return merchant, nil
}

func (s *stubMerchantRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deletedID = id
	delete(s.byID, id)
	return nil
}

func (s *stubMerchantRepo) Count(_ context.Context, activeOnly bool) (int64, error) {
	if activeOnly {
		return s.active, nil
	}
	return s.total, nil
}

type stubCategoryCounter struct {
	total int64
}

func (s *stubCategoryCounter) Count(_ context.Context) (int64, error) {
	return s.total, nil
}

type adminTestSetup struct {
	service    Service
	users      *stubUserRepo
	merchants  *stubMerchantRepo
	categories *stubCategoryCounter
}

func newAdminTestSetup(t *testing.T) *adminTestSetup {
	t.Helper()
	users := newStubUserRepo()
	merchants := newStubMerchantRepo()
	categories := &stubCategoryCounter{}

	svc, err := NewService(ServiceParams{
		UserRepo:     users,
		MerchantRepo: merchants,
		CategoryRepo: categories,
	})
	if err != nil {
		t.Fatalf("new admin service: %v", err)
	}
	return &adminTestSetup{service: svc, users: users, merchants: merchants, categories: categories}
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

func TestUpdateUserRoleRejectsUnknownRole(t *testing.T) {
	setup := newAdminTestSetup(t)
	id := uuid.New()
	setup.users.byID[id] = &models.User{ID: id, Role: enums.RoleMerchant}

	_, err := setup.service.UpdateUserRole(context.Background(), id, "owner")
	assertCode(t, err, pkgerrors.CodeValidation)
	if setup.users.updatedRole != "" {
		t.Fatal("role must not be written for an unknown value")
	}
}

func TestUpdateUserRolePromotes(t *testing.T) {
	setup := newAdminTestSetup(t)
	id := uuid.New()
	setup.users.byID[id] = &models.User{ID: id, Role: enums.RoleMerchant}

	dto, err := setup.service.UpdateUserRole(context.Background(), id, "super_admin")
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if dto.Role != enums.RoleSuperAdmin {
		t.Fatalf("role = %q, want super_admin", dto.Role)
	}
	if setup.users.updatedRole != enums.RoleSuperAdmin {
		t.Fatal("expected role write to reach the repository")
	}
}

func TestDeleteUserRefusesOwnAccount(t *testing.T) {
	setup := newAdminTestSetup(t)
	id := uuid.New()
	setup.users.byID[id] = &models.User{ID: id, Role: enums.RoleSuperAdmin}

	err := setup.service.DeleteUser(context.Background(), id, id)
	assertCode(t, err, pkgerrors.CodeValidation)
	if setup.users.deleteCalled {
		t.Fatal("delete must not reach the repository")
	}
}

func TestDeleteUserUnknownID(t *testing.T) {
	setup := newAdminTestSetup(t)

	err := setup.service.DeleteUser(context.Background(), uuid.New(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestSetMerchantStatusSuspends(t *testing.T) {
	setup := newAdminTestSetup(t)
	id := uuid.New()
	setup.merchants.byID[id] = &models.Merchant{ID: id, IsActive: true}

	dto, err := setup.service.SetMerchantStatus(context.Background(), id, false)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if dto.IsActive {
		t.Fatal("merchant should be suspended")
	}
	if setup.merchants.updated == nil || setup.merchants.updated.IsActive {
		t.Fatal("suspension must be persisted")
	}
}

func TestListMerchantsPassesSearchAndPaging(t *testing.T) {
	setup := newAdminTestSetup(t)
	setup.merchants.total = 45

	_, meta, err := setup.service.ListMerchants(context.Background(), "acme", pagination.Params{Page: 2, Limit: 20})
	if err != nil {
		t.Fatalf("list merchants: %v", err)
	}
	if setup.merchants.lastSearch != "acme" {
		t.Fatalf("search = %q", setup.merchants.lastSearch)
	}
	if setup.merchants.lastOffset != 20 || setup.merchants.lastLimit != 20 {
		t.Fatalf("offset/limit = %d/%d, want 20/20", setup.merchants.lastOffset, setup.merchants.lastLimit)
	}
	if meta.Total != 45 || meta.TotalPages != 3 {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestStatsCollectsAllCounters(t *testing.T) {
	setup := newAdminTestSetup(t)
	setup.users.total = 120
	setup.users.recent = 14
	setup.merchants.total = 80
	setup.merchants.active = 66
	setup.categories.total = 9

	stats, err := setup.service.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalUsers != 120 || stats.NewUsersLast30Days != 14 {
		t.Fatalf("user counters = %d/%d", stats.TotalUsers, stats.NewUsersLast30Days)
	}
	if stats.TotalMerchants != 80 || stats.ActiveMerchants != 66 {
		t.Fatalf("merchant counters = %d/%d", stats.TotalMerchants, stats.ActiveMerchants)
	}
	if stats.TotalCategories != 9 {
		t.Fatalf("category counter = %d", stats.TotalCategories)
	}
	if stats.GeneratedAt.IsZero() {
		t.Fatal("expected a timestamp")
	}
}

func TestHealthReportsOK(t *testing.T) {
	setup := newAdminTestSetup(t)

	h := setup.service.Health(context.Background())
	if h.Status != "ok" || h.UserStore != "ok" || h.MerchantStore != "ok" {
		t.Fatalf("health = %+v, want all ok", h)
	}
	if h.CheckedAt.IsZero() {
		t.Fatal("expected a timestamp")
	}
}

func TestHealthDegradesOnUserStoreFailure(t *testing.T) {
	setup := newAdminTestSetup(t)
	setup.users.countErr = errors.New("connection refused")

	h := setup.service.Health(context.Background())
	if h.Status != "degraded" {
		t.Fatalf("status = %s, want degraded", h.Status)
	}
	if h.UserStore != "unreachable" {
		t.Fatalf("user store = %s, want unreachable", h.UserStore)
	}
	if h.MerchantStore != "ok" {
		t.Fatalf("merchant store = %s, want ok", h.MerchantStore)
	}
}

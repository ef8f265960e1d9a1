package admin

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/openstorehq/openstore-backend/pkg/db/models"
	"github.com/openstorehq/openstore-backend/pkg/enums"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
	"github.com/openstorehq/openstore-backend/pkg/pagination"
)

const recentRegistrationWindow = 30 * 24 * time.Hour

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, cutoff time.Time) (int64, error)
}

type merchantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Merchant, error)
	List(ctx context.Context, search string, offset, limit int) ([]models.Merchant, int64, error)
	Update(ctx context.Context, merchant *models.Merchant) (*models.Merchant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, activeOnly bool) (int64, error)
}

type categoryCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Service exposes the platform administration surface. It operates over
// the admin database handle, not the tenant one.
type Service interface {
	ListUsers(ctx context.Context, p pagination.Params) ([]UserDTO, pagination.Meta, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role string) (*UserDTO, error)
	DeleteUser(ctx context.Context, actorID, id uuid.UUID) error
	ListMerchants(ctx context.Context, search string, p pagination.Params) ([]MerchantDTO, pagination.Meta, error)
	GetMerchant(ctx context.Context, id uuid.UUID) (*MerchantDTO, error)
	SetMerchantStatus(ctx context.Context, id uuid.UUID, active bool) (*MerchantDTO, error)
	DeleteMerchant(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*StatsDTO, error)
	Health(ctx context.Context) *HealthDTO
}

type service struct {
	users      userRepository
	merchants  merchantRepository
	categories categoryCounter
	now        func() time.Time
}

// ServiceParams bundles the dependencies for the admin service.
type ServiceParams struct {
	UserRepo     userRepository
	MerchantRepo merchantRepository
	CategoryRepo categoryCounter
}

// NewService constructs the admin service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil || params.MerchantRepo == nil || params.CategoryRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "admin repositories required")
	}
	return &service{
		users:      params.UserRepo,
		merchants:  params.MerchantRepo,
		categories: params.CategoryRepo,
		now:        time.Now,
	}, nil
}

func (s *service) ListUsers(ctx context.Context, p pagination.Params) ([]UserDTO, pagination.Meta, error) {
	p = pagination.Normalize(p)
	users, total, err := s.users.List(ctx, p.Offset(), p.Limit)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return NewUserDTOs(users), pagination.NewMeta(p, total), nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewUserDTO(user)
	return &dto, nil
}

func (s *service) UpdateUserRole(ctx context.Context, id uuid.UUID, role string) (*UserDTO, error) {
	parsed, err := enums.ParseRole(role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateRole(ctx, user.ID, parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update role")
	}

	user.Role = parsed
	dto := NewUserDTO(user)
	return &dto, nil
}

// DeleteUser removes a user profile. Admins cannot delete their own
// account through this path; that would strand the session mid-request.
func (s *service) DeleteUser(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete own account")
	}
	if _, err := s.loadUser(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}

func (s *service) ListMerchants(ctx context.Context, search string, p pagination.Params) ([]MerchantDTO, pagination.Meta, error) {
	p = pagination.Normalize(p)
	rows, total, err := s.merchants.List(ctx, search, p.Offset(), p.Limit)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list merchants")
	}
	return NewMerchantDTOs(rows), pagination.NewMeta(p, total), nil
}

func (s *service) GetMerchant(ctx context.Context, id uuid.UUID) (*MerchantDTO, error) {
	merchant, err := s.loadMerchant(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewMerchantDTO(merchant)
	return &dto, nil
}

func (s *service) SetMerchantStatus(ctx context.Context, id uuid.UUID, active bool) (*MerchantDTO, error) {
	merchant, err := s.loadMerchant(ctx, id)
	if err != nil {
		return nil, err
	}

	merchant.IsActive = active
	updated, err := s.merchants.Update(ctx, merchant)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update merchant status")
	}

	dto := NewMerchantDTO(updated)
	return &dto, nil
}

func (s *service) DeleteMerchant(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadMerchant(ctx, id); err != nil {
		return err
	}
	if err := s.merchants.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete merchant")
	}
	return nil
}

// Stats fans the counter queries out concurrently; the dashboard calls
// this on every load.
func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	now := s.now()
	stats := &StatsDTO{GeneratedAt: now}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.users.Count(ctx)
		stats.TotalUsers = total
		return err
	})
	g.Go(func() error {
		total, err := s.users.CountCreatedSince(ctx, now.Add(-recentRegistrationWindow))
		stats.NewUsersLast30Days = total
		return err
	})
	g.Go(func() error {
		total, err := s.merchants.Count(ctx, false)
		stats.TotalMerchants = total
		return err
	})
	g.Go(func() error {
		total, err := s.merchants.Count(ctx, true)
		stats.ActiveMerchants = total
		return err
	})
	g.Go(func() error {
		total, err := s.categories.Count(ctx)
		stats.TotalCategories = total
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "collect stats")
	}
	return stats, nil
}

// Health probes the stores behind the admin surface with cheap counts
// over the same handle the admin queries run on. It always returns a
// summary; outages show up as a degraded status, not an error.
func (s *service) Health(ctx context.Context) *HealthDTO {
	h := &HealthDTO{
		Status:        "ok",
		UserStore:     "ok",
		MerchantStore: "ok",
		CheckedAt:     s.now(),
	}
	if _, err := s.users.Count(ctx); err != nil {
		h.Status = "degraded"
		h.UserStore = "unreachable"
	}
	if _, err := s.merchants.Count(ctx, false); err != nil {
		h.Status = "degraded"
		h.MerchantStore = "unreachable"
	}
	return h
}

func (s *service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}

func (s *service) loadMerchant(ctx context.Context, id uuid.UUID) (*models.Merchant, error) {
	merchant, err := s.merchants.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load merchant")
	}
	return merchant, nil
}

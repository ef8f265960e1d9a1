package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openstorehq/openstore-backend/internal/merchants"
	pkgauth "github.com/openstorehq/openstore-backend/pkg/auth"
	"github.com/openstorehq/openstore-backend/pkg/config"
	"github.com/openstorehq/openstore-backend/pkg/db/models"
	"github.com/openstorehq/openstore-backend/pkg/enums"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
	"github.com/openstorehq/openstore-backend/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

type registerMerchantRepository interface {
	FindBySubdomain(ctx context.Context, subdomain string) (*models.Merchant, error)
	Create(ctx context.Context, merchant *models.Merchant) (*models.Merchant, error)
}

type registerCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// UserRepoFactory adapts a concrete user repository constructor to the
// transactional factory the registration flow expects.
func UserRepoFactory[R registerUserRepository](build func(db *gorm.DB) R) func(tx *gorm.DB) registerUserRepository {
	return func(tx *gorm.DB) registerUserRepository { return build(tx) }
}

// MerchantRepoFactory adapts a concrete merchant repository constructor.
func MerchantRepoFactory[R registerMerchantRepository](build func(db *gorm.DB) R) func(tx *gorm.DB) registerMerchantRepository {
	return func(tx *gorm.DB) registerMerchantRepository { return build(tx) }
}

// CategoryRepoFactory adapts a concrete category repository constructor.
func CategoryRepoFactory[R registerCategoryRepository](build func(db *gorm.DB) R) func(tx *gorm.DB) registerCategoryRepository {
	return func(tx *gorm.DB) registerCategoryRepository { return build(tx) }
}

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	TxRunner            txRunner
	UserRepoFactory     func(tx *gorm.DB) registerUserRepository
	MerchantRepoFactory func(tx *gorm.DB) registerMerchantRepository
	CategoryRepoFactory func(tx *gorm.DB) registerCategoryRepository
	PasswordConfig      config.PasswordConfig
	JWTConfig           config.JWTConfig
}

type registerService struct {
	tx          txRunner
	userRepo    func(tx *gorm.DB) registerUserRepository
	merchants   func(tx *gorm.DB) registerMerchantRepository
	categories  func(tx *gorm.DB) registerCategoryRepository
	passwordCfg config.PasswordConfig
	jwtCfg      config.JWTConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.UserRepoFactory == nil || params.MerchantRepoFactory == nil || params.CategoryRepoFactory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "repository factories required")
	}
	return &registerService{
		tx:          params.TxRunner,
		userRepo:    params.UserRepoFactory,
		merchants:   params.MerchantRepoFactory,
		categories:  params.CategoryRepoFactory,
		passwordCfg: params.PasswordConfig,
		jwtCfg:      params.JWTConfig,
	}, nil
}

// Register creates the user and its storefront in one transaction; a
// failure at any step leaves no partial account behind.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	subdomain := strings.TrimSpace(req.Subdomain)
	if subdomain == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subdomain is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	apiKey, err := security.GenerateAPIKey()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate api key")
	}

	var (
		user     *models.User
		merchant *models.Merchant
	)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)
		merchantRepo := s.merchants(tx)
		categoryRepo := s.categories(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		if _, err := merchantRepo.FindBySubdomain(ctx, subdomain); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "subdomain already in use")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check subdomain")
		}

		if req.CategoryID != nil {
			category, err := categoryRepo.FindByID(ctx, *req.CategoryID)
			if err != nil || !category.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation, "category not found or inactive")
			}
		}

		user, err = userRepo.Create(ctx, &models.User{
			Email:        email,
			PasswordHash: passwordHash,
			FullName:     strings.TrimSpace(req.FullName),
			Role:         enums.RoleMerchant,
			IsActive:     true,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		merchant, err = merchantRepo.Create(ctx, &models.Merchant{
			OwnerID:      user.ID,
			BusinessName: strings.TrimSpace(req.BusinessName),
			Subdomain:    subdomain,
			APIKey:       apiKey,
			CategoryID:   req.CategoryID,
			IsActive:     true,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create merchant")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	return &RegisterResponse{
		User:        NewUserDTO(user),
		Merchant:    *merchants.NewMerchantDTO(merchant),
		AccessToken: token,
	}, nil
}

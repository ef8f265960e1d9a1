package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openstorehq/openstore-backend/pkg/config"
	"github.com/openstorehq/openstore-backend/pkg/db/models"
	"github.com/openstorehq/openstore-backend/pkg/enums"
	pkgerrors "github.com/openstorehq/openstore-backend/pkg/errors"
	"github.com/openstorehq/openstore-backend/pkg/security"
)

type stubLoginUserRepo struct {
	byEmail     map[string]*models.User
	lastLoginID uuid.UUID
}

func (s *stubLoginUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLoginUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, _ time.Time) error {
	s.lastLoginID = id
	return nil
}

func loginTestSetup(t *testing.T, password string, active bool) (Service, *stubLoginUserRepo, *models.User) {
	t.Helper()

	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        "owner@example.com",
		PasswordHash: hash,
		FullName:     "Pat Owner",
		Role:         enums.RoleMerchant,
		IsActive:     active,
	}
	repo := &stubLoginUserRepo{byEmail: map[string]*models.User{user.Email: user}}

	svc, err := NewService(ServiceParams{
		UserRepo:  repo,
		JWTConfig: config.JWTConfig{Secret: "login-secret", Issuer: "openstore-test", ExpirationMinutes: 10},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, user
}

func assertInvalidCredentials(t *testing.T, err error) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("message = %q, want %q", typed.Message(), invalidCredentialsMessage)
	}
}

func TestLoginSuccess(t *testing.T) {
	svc, repo, user := loginTestSetup(t, "hunter2hunter2", true)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    " Owner@Example.com ",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if resp.User.ID != user.ID {
		t.Fatalf("user id = %s, want %s", resp.User.ID, user.ID)
	}
	if repo.lastLoginID != user.ID {
		t.Fatal("expected last login to be recorded")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := loginTestSetup(t, "hunter2hunter2", true)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "owner@example.com",
		Password: "wrong-password",
	})
	assertInvalidCredentials(t, err)
}

func TestLoginUnknownEmailSameDenial(t *testing.T) {
	svc, _, _ := loginTestSetup(t, "hunter2hunter2", true)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter2hunter2",
	})
	assertInvalidCredentials(t, err)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, _, _ := loginTestSetup(t, "hunter2hunter2", false)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "owner@example.com",
		Password: "hunter2hunter2",
	})
	assertInvalidCredentials(t, err)
}

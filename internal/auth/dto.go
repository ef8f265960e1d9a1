package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/openstorehq/openstore-backend/internal/merchants"
	"github.com/openstorehq/openstore-backend/pkg/db/models"
	"github.com/openstorehq/openstore-backend/pkg/enums"
)

// RegisterRequest contains the payload for onboarding a merchant account.
type RegisterRequest struct {
	Email        string     `json:"email" validate:"required,email"`
	Password     string     `json:"password" validate:"required,min=8"`
	FullName     string     `json:"full_name" validate:"required"`
	BusinessName string     `json:"business_name" validate:"required"`
	Subdomain    string     `json:"subdomain" validate:"required"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
}

// LoginRequest contains the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserDTO is the user payload returned by auth flows.
type UserDTO struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      enums.Role `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

// RegisterResponse carries the freshly created account and storefront. The
// merchant payload includes the generated API key; this response is the
// first and only place the caller is guaranteed to see it without rotating.
type RegisterResponse struct {
	User        UserDTO               `json:"user"`
	Merchant    merchants.MerchantDTO `json:"merchant"`
	AccessToken string                `json:"access_token"`
}

// LoginResponse carries the minted token and user profile.
type LoginResponse struct {
	User        UserDTO `json:"user"`
	AccessToken string  `json:"access_token"`
}

// NewUserDTO maps the persisted model to the auth payload.
func NewUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

package admin

import (
	"time"

	"github.com/google/uuid"

	"github.com/openstorehq/openstore-backend/pkg/db/models"
	"github.com/openstorehq/openstore-backend/pkg/enums"
)

// UserDTO is the admin view of a user profile.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        enums.Role `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// MerchantDTO is the admin view of a merchant. The API key stays out of
// admin listings; only the owning user sees it.
type MerchantDTO struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	BusinessName string     `json:"business_name"`
	Subdomain    string     `json:"subdomain"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// StatsDTO aggregates platform-wide counters for the admin dashboard.
type StatsDTO struct {
	TotalUsers         int64     `json:"total_users"`
	TotalMerchants     int64     `json:"total_merchants"`
	ActiveMerchants    int64     `json:"active_merchants"`
	TotalCategories    int64     `json:"total_categories"`
	NewUsersLast30Days int64     `json:"new_users_last_30_days"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// HealthDTO summarizes the probes behind the admin surface.
type HealthDTO struct {
	Status        string    `json:"status"`
	UserStore     string    `json:"user_store"`
	MerchantStore string    `json:"merchant_store"`
	CheckedAt     time.Time `json:"checked_at"`
}

// NewUserDTO maps the persisted model to the admin payload.
func NewUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// NewUserDTOs maps a slice of models.
func NewUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, NewUserDTO(&users[i]))
	}
	return out
}

// NewMerchantDTO maps the persisted model to the admin payload.
func NewMerchantDTO(merchant *models.Merchant) MerchantDTO {
	return MerchantDTO{
		ID:           merchant.ID,
		OwnerID:      merchant.OwnerID,
		BusinessName: merchant.BusinessName,
		Subdomain:    merchant.Subdomain,
		CategoryID:   merchant.CategoryID,
		IsActive:     merchant.IsActive,
		CreatedAt:    merchant.CreatedAt,
		UpdatedAt:    merchant.UpdatedAt,
	}
}

// NewMerchantDTOs maps a slice of models.
func NewMerchantDTOs(merchants []models.Merchant) []MerchantDTO {
	out := make([]MerchantDTO, 0, len(merchants))
	for i := range merchants {
		out = append(out, NewMerchantDTO(&merchants[i]))
	}
	return out
}

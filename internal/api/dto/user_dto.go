package dto

import (
	"time"

	"github.com/citizen-voice/feedback-service/internal/domain"
)

// RegisterRequest payload for new citizens.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// CreateUserRequest payload for administrator-created accounts.
type CreateUserRequest struct {
	RegisterRequest
	Role     domain.Role `json:"role"`
	AgencyID *string     `json:"agencyId"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries only the fields to change.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Password  *string `json:"password"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
}

// UpdateRoleRequest payload for role changes.
type UpdateRoleRequest struct {
	Role     domain.Role `json:"role"`
	AgencyID *string     `json:"agencyId"`
}

// UserResponse is the sanitized account representation.
type UserResponse struct {
	ID        string      `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Role      domain.Role `json:"role"`
	AgencyID  *string     `json:"agencyId,omitempty"`
	Address   string      `json:"address,omitempty"`
	City      string      `json:"city,omitempty"`
	Country   string      `json:"country,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// RegisterResponse confirms a registration.
type RegisterResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// AuthResponse standard response for login.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

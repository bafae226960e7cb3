package dto

import "time"

// AgencyRequest payload for agency create and update.
type AgencyRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

// AgencyResponse representation.
type AgencyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Name     string `json:"name"`
	AgencyID string `json:"agencyId"`
}

// UpdateCategoryRequest payload.
type UpdateCategoryRequest struct {
	Name     *string `json:"name"`
	AgencyID *string `json:"agencyId"`
}

// CategoryResponse includes the owning agency's name.
type CategoryResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	AgencyID   string    `json:"agencyId"`
	AgencyName string    `json:"agencyName"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

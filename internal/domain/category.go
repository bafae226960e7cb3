package domain

import "time"

// Category is a routing bucket belonging to exactly one agency.
type Category struct {
	ID        string
	Name      string
	AgencyID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryView is a category joined with its owning agency's name.
type CategoryView struct {
	Category
	AgencyName string
}

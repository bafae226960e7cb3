package domain

import "time"

// Agency is a service organization that owns categories and receives submissions.
type Agency struct {
	ID          string
	Name        string
	Email       *string
	Phone       *string
	Address     *string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

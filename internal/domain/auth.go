package domain

import "time"

// Credential is a signed, time-limited token bound to a user.
type Credential struct {
	ID        string
	Token     string
	UserID    string
	Role      Role
	AgencyID  *string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

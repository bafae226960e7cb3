package domain

import "time"

// Role determines the permitted operation set of a user.
type Role string

const (
	RoleCitizen     Role = "CITIZEN"
	RoleAgencyStaff Role = "AGENCY_STAFF"
	RoleAdmin       Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleAgencyStaff, RoleAdmin:
		return true
	}
	return false
}

// User is a citizen, agency staff member or administrator.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	AgencyID     *string
	Address      string
	City         string
	Country      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// AgencyConsistent checks that an agency is set exactly when the role is AGENCY_STAFF.
func (u *User) AgencyConsistent() bool {
	hasAgency := u.AgencyID != nil && *u.AgencyID != ""
	return hasAgency == (u.Role == RoleAgencyStaff)
}

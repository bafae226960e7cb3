package auth

import (
	"github.com/citizen-voice/feedback-service/internal/domain"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

// Actor is the caller identity every policy decision is made against.
type Actor struct {
	ID       string
	Role     domain.Role
	AgencyID *string
}

// SubmissionChange describes which parts of a submission an update touches.
type SubmissionChange struct {
	Content        bool
	Classification bool
	Status         bool
}

// IsAdmin reports whether the actor is an administrator.
func (a Actor) IsAdmin() bool {
	return a.ID != "" && a.Role == domain.RoleAdmin
}

func (a Actor) agency() string {
	if a.AgencyID == nil {
		return ""
	}
	return *a.AgencyID
}

// verify rejects actors that cannot be matched against any rule.
func (a Actor) verify() error {
	if a.ID == "" || !a.Role.Valid() {
		return apperrors.NewForbidden("caller identity is incomplete")
	}
	if a.Role == domain.RoleAgencyStaff && a.agency() == "" {
		return apperrors.NewForbidden("staff account is not linked to an agency")
	}
	return nil
}

func (a Actor) staffOf(agencyID string) bool {
	return a.Role == domain.RoleAgencyStaff && agencyID != "" && a.agency() == agencyID
}

// CanReadDirectory allows any verified caller.
func CanReadDirectory(a Actor) error {
	return a.verify()
}

// CanManageDirectory restricts agency and category writes to administrators.
func CanManageDirectory(a Actor) error {
	if err := a.verify(); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return apperrors.NewForbidden("only administrators may modify agencies and categories")
	}
	return nil
}

// CanManageUsers restricts account administration to administrators.
func CanManageUsers(a Actor) error {
	if err := a.verify(); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return apperrors.NewForbidden("only administrators may manage accounts")
	}
	return nil
}

// CanViewUser allows the user themself, administrators and agency staff.
func CanViewUser(a Actor, userID string) error {
	if err := a.verify(); err != nil {
		return err
	}
	if a.IsAdmin() || a.ID == userID || a.Role == domain.RoleAgencyStaff {
		return nil
	}
	return apperrors.NewForbidden("cannot view another user's profile")
}

// CanUpdateUser allows the user themself and administrators.
func CanUpdateUser(a Actor, userID string) error {
	if err := a.verify(); err != nil {
		return err
	}
	if a.IsAdmin() || a.ID == userID {
		return nil
	}
	return apperrors.NewForbidden("cannot modify another user's profile")
}

// CanCreateSubmission checks who may file a submission on behalf of authorID.
// Staff may file on behalf of citizens only into their own agency.
func CanCreateSubmission(a Actor, authorID, agencyID string) error {
	if err := a.verify(); err != nil {
		return err
	}
	switch a.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleCitizen:
		if a.ID == authorID {
			return nil
		}
	case domain.RoleAgencyStaff:
		if a.staffOf(agencyID) {
			return nil
		}
	}
	return apperrors.NewForbidden("cannot create a submission for this user or agency")
}

// CanReadSubmission allows the author, staff of the owning agency and administrators.
func CanReadSubmission(a Actor, s *domain.Submission) error {
	if err := a.verify(); err != nil {
		return err
	}
	if s == nil {
		return apperrors.NewForbidden("submission access denied")
	}
	switch {
	case a.IsAdmin():
		return nil
	case a.Role == domain.RoleCitizen && s.UserID == a.ID:
		return nil
	case a.staffOf(s.AgencyID):
		return nil
	}
	return apperrors.NewForbidden("submission access denied")
}

// CanUpdateSubmission checks the parts touched by an update. Authors may edit
// content and classification, staff of the owning agency may edit status.
func CanUpdateSubmission(a Actor, s *domain.Submission, change SubmissionChange) error {
	if err := CanReadSubmission(a, s); err != nil {
		return err
	}
	if a.IsAdmin() {
		return nil
	}
	if a.Role == domain.RoleCitizen && change.Status {
		return apperrors.NewForbidden("citizens may not change submission status")
	}
	if a.Role == domain.RoleAgencyStaff && (change.Content || change.Classification) {
		return apperrors.NewForbidden("agency staff may only change submission status")
	}
	return nil
}

// CanRespond allows staff of the owning agency and administrators.
func CanRespond(a Actor, s *domain.Submission) error {
	if err := a.verify(); err != nil {
		return err
	}
	if s != nil && (a.IsAdmin() || a.staffOf(s.AgencyID)) {
		return nil
	}
	return apperrors.NewForbidden("cannot respond to this submission")
}

// CanEditResponse allows the original responder and administrators.
func CanEditResponse(a Actor, r *domain.AdminResponse) error {
	if err := a.verify(); err != nil {
		return err
	}
	if r != nil && (a.IsAdmin() || (a.Role != domain.RoleCitizen && r.ResponderID == a.ID)) {
		return nil
	}
	return apperrors.NewForbidden("only the original responder may edit this response")
}

// AgencyScope returns the agency restriction for organization-wide views:
// nil for administrators, the own agency for staff. Citizens are refused.
func AgencyScope(a Actor) (*string, error) {
	if err := a.verify(); err != nil {
		return nil, err
	}
	switch a.Role {
	case domain.RoleAdmin:
		return nil, nil
	case domain.RoleAgencyStaff:
		agency := a.agency()
		return &agency, nil
	}
	return nil, apperrors.NewForbidden("organization-wide views require staff or administrator access")
}

// CanListAgency allows administrators and staff of that agency.
func CanListAgency(a Actor, agencyID string) error {
	if err := a.verify(); err != nil {
		return err
	}
	if a.IsAdmin() || a.staffOf(agencyID) {
		return nil
	}
	return apperrors.NewForbidden("cannot list submissions of this agency")
}

// CanListUser allows the user themself, staff and administrators. Staff see
// only rows their agency owns; callers filter with CanReadSubmission.
func CanListUser(a Actor, userID string) error {
	if err := a.verify(); err != nil {
		return err
	}
	if a.IsAdmin() || a.ID == userID || a.Role == domain.RoleAgencyStaff {
		return nil
	}
	return apperrors.NewForbidden("cannot list another user's submissions")
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citizen-voice/feedback-service/internal/domain"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

func strPtr(s string) *string { return &s }

var (
	admin      = Actor{ID: "admin", Role: domain.RoleAdmin}
	citizen    = Actor{ID: "citizen", Role: domain.RoleCitizen}
	otherCitiz = Actor{ID: "citizen-2", Role: domain.RoleCitizen}
	staffA     = Actor{ID: "staff-a", Role: domain.RoleAgencyStaff, AgencyID: strPtr("agency-a")}
	staffB     = Actor{ID: "staff-b", Role: domain.RoleAgencyStaff, AgencyID: strPtr("agency-b")}
)

func forbidden(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}

func TestVerify_IncompleteActors(t *testing.T) {
	forbidden(t, CanReadDirectory(Actor{}))
	forbidden(t, CanReadDirectory(Actor{ID: "x", Role: "GUEST"}))
	forbidden(t, CanReadDirectory(Actor{ID: "x", Role: domain.RoleAgencyStaff}))
	assert.NoError(t, CanReadDirectory(citizen))
}

func TestCanManageDirectory(t *testing.T) {
	assert.NoError(t, CanManageDirectory(admin))
	forbidden(t, CanManageDirectory(staffA))
	forbidden(t, CanManageDirectory(citizen))
}

func TestUserPolicies(t *testing.T) {
	assert.NoError(t, CanViewUser(citizen, "citizen"))
	assert.NoError(t, CanViewUser(staffA, "citizen"))
	assert.NoError(t, CanViewUser(admin, "citizen"))
	forbidden(t, CanViewUser(otherCitiz, "citizen"))

	assert.NoError(t, CanUpdateUser(citizen, "citizen"))
	assert.NoError(t, CanUpdateUser(admin, "citizen"))
	forbidden(t, CanUpdateUser(staffA, "citizen"))
}

func TestCanCreateSubmission(t *testing.T) {
	assert.NoError(t, CanCreateSubmission(citizen, "citizen", "agency-a"))
	assert.NoError(t, CanCreateSubmission(admin, "citizen", "agency-b"))
	assert.NoError(t, CanCreateSubmission(staffA, "citizen", "agency-a"))
	forbidden(t, CanCreateSubmission(otherCitiz, "citizen", "agency-a"))
	forbidden(t, CanCreateSubmission(staffA, "citizen", "agency-b"))
}

func TestCanReadSubmission(t *testing.T) {
	s := &domain.Submission{UserID: "citizen", AgencyID: "agency-a"}

	tests := []struct {
		name  string
		actor Actor
		allow bool
	}{
		{"author", citizen, true},
		{"other citizen", otherCitiz, false},
		{"owning staff", staffA, true},
		{"foreign staff", staffB, false},
		{"admin", admin, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanReadSubmission(tt.actor, s)
			if tt.allow {
				assert.NoError(t, err)
			} else {
				forbidden(t, err)
			}
		})
	}
}

func TestCanUpdateSubmission(t *testing.T) {
	s := &domain.Submission{UserID: "citizen", AgencyID: "agency-a"}

	assert.NoError(t, CanUpdateSubmission(citizen, s, SubmissionChange{Content: true, Classification: true}))
	forbidden(t, CanUpdateSubmission(citizen, s, SubmissionChange{Status: true}))
	assert.NoError(t, CanUpdateSubmission(staffA, s, SubmissionChange{Status: true}))
	forbidden(t, CanUpdateSubmission(staffA, s, SubmissionChange{Content: true}))
	forbidden(t, CanUpdateSubmission(staffB, s, SubmissionChange{Status: true}))
	assert.NoError(t, CanUpdateSubmission(admin, s, SubmissionChange{Content: true, Status: true}))
}

func TestResponsePolicies(t *testing.T) {
	s := &domain.Submission{UserID: "citizen", AgencyID: "agency-a"}
	assert.NoError(t, CanRespond(staffA, s))
	assert.NoError(t, CanRespond(admin, s))
	forbidden(t, CanRespond(staffB, s))
	forbidden(t, CanRespond(citizen, s))

	r := &domain.AdminResponse{ResponderID: "staff-a"}
	assert.NoError(t, CanEditResponse(staffA, r))
	assert.NoError(t, CanEditResponse(admin, r))
	forbidden(t, CanEditResponse(staffB, r))
}

func TestAgencyScope(t *testing.T) {
	scope, err := AgencyScope(admin)
	require.NoError(t, err)
	assert.Nil(t, scope)

	scope, err = AgencyScope(staffA)
	require.NoError(t, err)
	require.NotNil(t, scope)
	assert.Equal(t, "agency-a", *scope)

	_, err = AgencyScope(citizen)
	forbidden(t, err)
}

func TestListPolicies(t *testing.T) {
	assert.NoError(t, CanListAgency(staffA, "agency-a"))
	assert.NoError(t, CanListAgency(admin, "agency-b"))
	forbidden(t, CanListAgency(staffA, "agency-b"))
	forbidden(t, CanListAgency(citizen, "agency-a"))

	assert.NoError(t, CanListUser(citizen, "citizen"))
	assert.NoError(t, CanListUser(staffB, "citizen"))
	forbidden(t, CanListUser(otherCitiz, "citizen"))
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citizen-voice/feedback-service/internal/auth"
	"github.com/citizen-voice/feedback-service/internal/domain"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

func TestRegister_CreatesCitizen(t *testing.T) {
	// Arrange
	env := newTestEnv(t, nil)

	// Act
	user, err := env.auth.Register(env.ctx, registerInput("  New.User@Example.com ", "0731234567"))

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "new.user@example.com", user.Email)
	assert.Equal(t, domain.RoleCitizen, user.Role)
	assert.Nil(t, user.AgencyID)
	assert.NotEqual(t, testPassword, user.PasswordHash)
	assert.NoError(t, auth.ComparePassword(user.PasswordHash, testPassword))
}

func TestRegister_DuplicateEmailWinsOverOtherErrors(t *testing.T) {
	env := newTestEnv(t, nil)

	input := registerInput("CITIZEN@example.com", "123")
	input.Password = "x"
	_, err := env.auth.Register(env.ctx, input)

	assertCode(t, err, apperrors.CodeConflict)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		field  string
	}{
		{"missing email", func(in *RegisterInput) { in.Email = " " }, "email"},
		{"missing first name", func(in *RegisterInput) { in.FirstName = "" }, "firstName"},
		{"missing last name", func(in *RegisterInput) { in.LastName = "" }, "lastName"},
		{"malformed email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"short phone", func(in *RegisterInput) { in.Phone = "078123" }, "phone"},
		{"nine digit phone", func(in *RegisterInput) { in.Phone = "078123456" }, "phone"},
		{"eleven digit phone", func(in *RegisterInput) { in.Phone = "07812345678" }, "phone"},
		{"non ascii digits", func(in *RegisterInput) { in.Phone = "0781٠٠٠" }, "phone"},
		{"non numeric phone", func(in *RegisterInput) { in.Phone = "078123456x" }, "phone"},
		{"foreign prefix", func(in *RegisterInput) { in.Phone = "0701234567" }, "phone"},
		{"short password", func(in *RegisterInput) { in.Password = "abcd" }, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := registerInput("fresh@example.com", "0781111111")
			tt.mutate(&input)

			_, err := env.auth.Register(env.ctx, input)

			assertCode(t, err, apperrors.CodeInvalidInput)
			assert.Equal(t, tt.field, apperrors.ToDomainError(err).Details["field"])
		})
	}

	_, err := env.store.Users.GetByEmail(env.ctx, "fresh@example.com")
	assert.Error(t, err, "failed registrations must not store anything")
}

func TestValidatePhone(t *testing.T) {
	v := NewAccountValidator(nil, 0)

	tests := []struct {
		phone string
		ok    bool
	}{
		{"0781234567", true},
		{" 0721234567 ", true},
		{"078123456", false},
		{"07812345678", false},
		{"0701234567", false},
		{"0781٠٠٠", false},
		{"０７８１２３４５６７", false},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			err := v.ValidatePhone(tt.phone)

			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assertCode(t, err, apperrors.CodeInvalidInput)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	user, cred, err := env.auth.Login(env.ctx, "Citizen@Example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, env.citizen.ID, user.ID)
	assert.Equal(t, env.citizen.ID, cred.UserID)
	assert.True(t, cred.ExpiresAt.After(cred.IssuedAt))

	parsed, err := env.tokens.Parse(cred.Token)
	require.NoError(t, err)
	assert.Equal(t, cred.ID, parsed.ID)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := env.auth.Login(env.ctx, "nobody@example.com", testPassword)
	assertCode(t, err, apperrors.CodeNotFound)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	_, _, err = env.auth.Login(env.ctx, "citizen@example.com", "wrong-password")
	assertCode(t, err, apperrors.CodeForbidden)

	_, _, err = env.auth.Login(env.ctx, "", testPassword)
	assertCode(t, err, apperrors.CodeInvalidInput)
}

func TestLogout_RevokesCredential(t *testing.T) {
	// Arrange
	env := newTestEnv(t, nil)
	_, cred, err := env.auth.Login(env.ctx, "citizen@example.com", testPassword)
	require.NoError(t, err)

	// Act
	require.NoError(t, env.auth.Logout(env.ctx, cred.Token))
	require.NoError(t, env.auth.Logout(env.ctx, cred.Token))

	// Assert
	revoked, err := env.revocations.IsRevoked(env.ctx, cred.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.NoError(t, env.auth.Logout(env.ctx, ""))
	assert.NoError(t, env.auth.Logout(env.ctx, "garbage"))
}

func TestViewProfile(t *testing.T) {
	env := newTestEnv(t, nil)

	got, err := env.auth.ViewProfile(env.ctx, env.citizen, env.citizen.ID)
	require.NoError(t, err)
	assert.Equal(t, "citizen@example.com", got.Email)

	_, err = env.auth.ViewProfile(env.ctx, env.staffG1, env.citizen.ID)
	assert.NoError(t, err)

	_, err = env.auth.ViewProfile(env.ctx, env.citizen2, env.citizen.ID)
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = env.auth.ViewProfile(env.ctx, env.admin, "missing")
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	// Arrange
	env := newTestEnv(t, nil)

	// Act
	updated, err := env.auth.UpdateProfile(env.ctx, env.citizen, env.citizen.ID, ProfileUpdate{
		City:     ptr("Huye"),
		Password: ptr("new-secret"),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Huye", updated.City)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, "0781234567", updated.Phone)
	_, _, err = env.auth.Login(env.ctx, "citizen@example.com", "new-secret")
	assert.NoError(t, err)
}

func TestUpdateProfile_RejectsInvalidAndForeign(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.auth.UpdateProfile(env.ctx, env.citizen, env.citizen.ID, ProfileUpdate{
		City:  ptr("Huye"),
		Phone: ptr("0701234567"),
	})
	assertCode(t, err, apperrors.CodeInvalidInput)

	stored, err := env.store.Users.GetByID(env.ctx, env.citizen.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kigali", stored.City)

	_, err = env.auth.UpdateProfile(env.ctx, env.citizen2, env.citizen.ID, ProfileUpdate{City: ptr("Musanze")})
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestCreateUser_AgencyRule(t *testing.T) {
	env := newTestEnv(t, nil)
	input := func(email string, role domain.Role, agencyID *string) CreateUserInput {
		return CreateUserInput{RegisterInput: registerInput(email, "0781231231"), Role: role, AgencyID: agencyID}
	}

	_, err := env.auth.CreateUser(env.ctx, env.admin, input("s1@example.com", domain.RoleAgencyStaff, nil))
	assertCode(t, err, apperrors.CodeInvalidInput)

	_, err = env.auth.CreateUser(env.ctx, env.admin, input("s2@example.com", domain.RoleAdmin, ptr(env.g1.ID)))
	assertCode(t, err, apperrors.CodeInvalidInput)

	_, err = env.auth.CreateUser(env.ctx, env.admin, input("s3@example.com", domain.RoleAgencyStaff, ptr("missing")))
	assertCode(t, err, apperrors.CodeNotFound)

	_, err = env.auth.CreateUser(env.ctx, env.admin, input("s4@example.com", "JANITOR", nil))
	assertCode(t, err, apperrors.CodeInvalidInput)

	_, err = env.auth.CreateUser(env.ctx, env.staffG1, input("s5@example.com", domain.RoleCitizen, nil))
	assertCode(t, err, apperrors.CodeForbidden)

	staff, err := env.auth.CreateUser(env.ctx, env.admin, input("s6@example.com", "agency_staff", ptr(env.g2.ID)))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgencyStaff, staff.Role)
	require.NotNil(t, staff.AgencyID)
	assert.Equal(t, env.g2.ID, *staff.AgencyID)
}

func TestUpdateUserRole(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.auth.UpdateUserRole(env.ctx, env.admin, env.citizen.ID, domain.RoleAgencyStaff, nil)
	assertCode(t, err, apperrors.CodeInvalidInput)

	promoted, err := env.auth.UpdateUserRole(env.ctx, env.admin, env.citizen.ID, domain.RoleAgencyStaff, ptr(env.g1.ID))
	require.NoError(t, err)
	assert.True(t, promoted.AgencyConsistent())

	demoted, err := env.auth.UpdateUserRole(env.ctx, env.admin, env.citizen.ID, domain.RoleCitizen, nil)
	require.NoError(t, err)
	assert.Nil(t, demoted.AgencyID)

	_, err = env.auth.UpdateUserRole(env.ctx, env.citizen2, env.citizen.ID, domain.RoleAdmin, nil)
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	env := newTestEnv(t, nil)

	require.NoError(t, env.auth.EnsureAdmin(env.ctx, "ADMIN@example.com", "another"))
	require.NoError(t, env.auth.EnsureAdmin(env.ctx, "", ""))

	admin, err := env.store.Users.GetByEmail(env.ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, env.admin.ID, admin.ID)
	assert.NoError(t, auth.ComparePassword(admin.PasswordHash, testPassword))
}

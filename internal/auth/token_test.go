package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citizen-voice/feedback-service/internal/domain"
)

func TestTokenManager_IssueAndParse(t *testing.T) {
	// Arrange
	agency := "agency-1"
	tm := NewTokenManager("secret", 30*time.Minute)
	user := &domain.User{ID: "user-1", Role: domain.RoleAgencyStaff, AgencyID: &agency}

	// Act
	issued, err := tm.Issue(user)
	require.NoError(t, err)
	parsed, err := tm.Parse(issued.Token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, issued.ID, parsed.ID)
	assert.Equal(t, "user-1", parsed.UserID)
	assert.Equal(t, domain.RoleAgencyStaff, parsed.Role)
	require.NotNil(t, parsed.AgencyID)
	assert.Equal(t, agency, *parsed.AgencyID)
	assert.Equal(t, 30*time.Minute, parsed.ExpiresAt.Sub(parsed.IssuedAt))
	assert.True(t, issued.ExpiresAt.Equal(parsed.ExpiresAt))
}

func TestTokenManager_UniqueIDs(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	user := &domain.User{ID: "user-1", Role: domain.RoleCitizen}

	first, err := tm.Issue(user)
	require.NoError(t, err)
	second, err := tm.Issue(user)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestTokenManager_Expired(t *testing.T) {
	// Arrange
	tm := NewTokenManager("secret", time.Minute)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return base }
	cred, err := tm.Issue(&domain.User{ID: "user-1", Role: domain.RoleCitizen})
	require.NoError(t, err)

	// Act
	tm.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = tm.Parse(cred.Token)

	// Assert
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)
	cred, err := issuer.Issue(&domain.User{ID: "user-1", Role: domain.RoleCitizen})
	require.NoError(t, err)

	_, err = verifier.Parse(cred.Token)
	assert.Error(t, err)

	_, err = verifier.Parse("not-a-token")
	assert.Error(t, err)
}

func TestTokenManager_DefaultTTL(t *testing.T) {
	assert.Equal(t, time.Hour, NewTokenManager("s", 0).TTL())
}

func TestPassword_HashAndCompare(t *testing.T) {
	hash, err := HashPassword("secret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.NoError(t, ComparePassword(hash, "secret"))
	assert.ErrorIs(t, ComparePassword(hash, "Secret"), ErrPasswordMismatch)
	assert.ErrorIs(t, ComparePassword("not-a-hash", "secret"), ErrPasswordMismatch)
}

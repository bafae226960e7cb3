package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/citizen-voice/feedback-service/internal/domain"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims describes JWT payload.
type Claims struct {
	Role     domain.Role `json:"role"`
	AgencyID *string     `json:"agencyId,omitempty"`
	jwt.RegisteredClaims
}

// Issue builds and signs a credential bound to the user.
func (tm *TokenManager) Issue(user *domain.User) (*domain.Credential, error) {
	issuedAt := tm.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(tm.ttl)
	jti := uuid.NewString()

	claims := &Claims{
		Role:     user.Role,
		AgencyID: user.AgencyID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return nil, err
	}
	return &domain.Credential{
		ID:        jti,
		Token:     tokenString,
		UserID:    user.ID,
		Role:      user.Role,
		AgencyID:  user.AgencyID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Parse validates signature and expiry and returns the credential.
func (tm *TokenManager) Parse(tokenStr string) (*domain.Credential, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, errors.New("token missing subject or id")
	}

	cred := &domain.Credential{
		ID:       claims.ID,
		Token:    tokenStr,
		UserID:   claims.Subject,
		Role:     claims.Role,
		AgencyID: claims.AgencyID,
	}
	if claims.IssuedAt != nil {
		cred.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		cred.ExpiresAt = claims.ExpiresAt.Time
	}
	return cred, nil
}

// TTL returns the lifetime of issued credentials.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

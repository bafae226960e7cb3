package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/repository"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User       *domain.User
	Credential *domain.Credential
}

// Actor returns the authorization view of the principal. Role and agency come
// from the stored account so changes apply without waiting for token expiry.
func (p *Principal) Actor() Actor {
	if p == nil || p.User == nil {
		return Actor{}
	}
	return Actor{ID: p.User.ID, Role: p.User.Role, AgencyID: p.User.AgencyID}
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens      *TokenManager
	users       repository.UserRepository
	revocations RevocationStore
	cookieName  string
	logger      *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, revocations RevocationStore, cookieName string, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, users: users, revocations: revocations, cookieName: cookieName, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := TokenFromRequest(c, m.cookieName)
	if err != nil {
		return err
	}

	cred, err := m.tokens.Parse(raw)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	revoked, err := m.revocations.IsRevoked(c.UserContext(), cred.ID)
	if err != nil {
		m.logger.Warn("revocation check failed", zap.Error(err))
		return apperrors.NewUnauthorized("credential could not be verified")
	}
	if revoked {
		return apperrors.NewUnauthorized("credential revoked")
	}

	user, err := m.users.GetByID(c.UserContext(), cred.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user, Credential: cred})
	return c.Next()
}

// TokenFromRequest reads the bearer token from the Authorization header, falling
// back to the credential cookie.
func TokenFromRequest(c *fiber.Ctx, cookieName string) (string, error) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", apperrors.NewUnauthorized("invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookieName != "" {
		if cookie := c.Cookies(cookieName); cookie != "" {
			return cookie, nil
		}
	}
	return "", apperrors.NewUnauthorized("missing credential")
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// ActorFromContext returns the caller as an Actor. The zero Actor fails every policy check.
func ActorFromContext(c *fiber.Ctx) Actor {
	principal, _ := PrincipalFromContext(c)
	return principal.Actor()
}

package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/citizen-voice/feedback-service/internal/auth"
	"github.com/citizen-voice/feedback-service/internal/config"
	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/repository"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

// AuthService coordinates registration, login and account management.
type AuthService struct {
	users       repository.UserRepository
	agencies    repository.AgencyRepository
	tokens      *auth.TokenManager
	revocations auth.RevocationStore
	validator   *AccountValidator
	bcryptCost  int
	logger      *zap.Logger
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	AgencyRepo  repository.AgencyRepository
	Tokens      *auth.TokenManager
	Revocations auth.RevocationStore
	Logger      *zap.Logger
}

// RegisterInput carries self-registration fields.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Address   string
	City      string
	Country   string
}

// CreateUserInput carries an administrator-created account.
type CreateUserInput struct {
	RegisterInput
	Role     domain.Role
	AgencyID *string
}

// ProfileUpdate lists the profile fields that may change. Nil fields are kept.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Password  *string
	Address   *string
	City      *string
	Country   *string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tokens := deps.Tokens
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	}
	revocations := deps.Revocations
	if revocations == nil {
		revocations = auth.NewMemoryRevocationStore()
	}
	return &AuthService{
		users:       deps.UserRepo,
		agencies:    deps.AgencyRepo,
		tokens:      tokens,
		revocations: revocations,
		validator:   NewAccountValidator(cfg.Auth.PhonePrefixes, cfg.Auth.MinPasswordLength),
		bcryptCost:  cfg.Auth.BcryptCost,
		logger:      logger,
	}
}

// Register creates a CITIZEN account. No credential is issued.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	return s.createAccount(ctx, input, domain.RoleCitizen, nil)
}

// CreateUser lets an administrator open an account with any role.
func (s *AuthService) CreateUser(ctx context.Context, actor auth.Actor, input CreateUserInput) (*domain.User, error) {
	if err := auth.CanManageUsers(actor); err != nil {
		return nil, err
	}
	role := domain.Role(strings.ToUpper(strings.TrimSpace(string(input.Role))))
	if !role.Valid() {
		return nil, apperrors.NewInvalidInput("role is invalid", map[string]any{"field": "role"})
	}
	agencyID, err := s.resolveAgencyForRole(ctx, role, input.AgencyID)
	if err != nil {
		return nil, err
	}
	return s.createAccount(ctx, input.RegisterInput, role, agencyID)
}

func (s *AuthService) createAccount(ctx context.Context, input RegisterInput, role domain.Role, agencyID *string) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, apperrors.NewInvalidInput("email is required", map[string]any{"field": "email"})
	}

	// duplicates win over every other validation failure
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	if err := requireFields(
		field("firstName", input.FirstName),
		field("lastName", input.LastName),
	); err != nil {
		return nil, err
	}
	if !validEmail(email) {
		return nil, apperrors.NewInvalidInput("email is invalid", map[string]any{"field": "email"})
	}
	if err := s.validator.ValidatePhone(input.Phone); err != nil {
		return nil, err
	}
	if err := s.validator.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Role:         role,
		AgencyID:     agencyID,
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		Country:      strings.TrimSpace(input.Country),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeError(err, "user", map[string]any{"email": email})
	}
	s.logger.Info("account created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Login verifies the password and issues a credential.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.Credential, error) {
	if err := requireFields(field("email", email), field("password", password)); err != nil {
		return nil, nil, err
	}
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.NewUnknownAccount()
		}
		return nil, nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewForbidden("invalid email or password")
	}
	cred, err := s.tokens.Issue(user)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	return user, cred, nil
}

// Logout revokes the presented token until it would have expired. Missing,
// malformed, expired or already revoked tokens are accepted silently.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}
	cred, err := s.tokens.Parse(rawToken)
	if err != nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, cred.ID, cred.ExpiresAt); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ViewProfile returns the stored account.
func (s *AuthService) ViewProfile(ctx context.Context, actor auth.Actor, id string) (*domain.User, error) {
	if err := auth.CanViewUser(actor, id); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "user", idDetails("id", id))
	}
	return user, nil
}

// UpdateProfile applies the supplied fields only.
func (s *AuthService) UpdateProfile(ctx context.Context, actor auth.Actor, id string, update ProfileUpdate) (*domain.User, error) {
	if err := auth.CanUpdateUser(actor, id); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "user", idDetails("id", id))
	}

	if update.FirstName != nil {
		if err := requireFields(field("firstName", *update.FirstName)); err != nil {
			return nil, err
		}
		user.FirstName = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		if err := requireFields(field("lastName", *update.LastName)); err != nil {
			return nil, err
		}
		user.LastName = strings.TrimSpace(*update.LastName)
	}
	if update.Phone != nil {
		if err := s.validator.ValidatePhone(*update.Phone); err != nil {
			return nil, err
		}
		user.Phone = strings.TrimSpace(*update.Phone)
	}
	if update.Password != nil {
		if err := s.validator.ValidatePassword(*update.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*update.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}
	if update.Address != nil {
		user.Address = strings.TrimSpace(*update.Address)
	}
	if update.City != nil {
		user.City = strings.TrimSpace(*update.City)
	}
	if update.Country != nil {
		user.Country = strings.TrimSpace(*update.Country)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeError(err, "user", idDetails("id", id))
	}
	return user, nil
}

// UpdateUserRole changes role and agency together so the agency rule holds.
func (s *AuthService) UpdateUserRole(ctx context.Context, actor auth.Actor, id string, role domain.Role, agencyID *string) (*domain.User, error) {
	if err := auth.CanManageUsers(actor); err != nil {
		return nil, err
	}
	role = domain.Role(strings.ToUpper(strings.TrimSpace(string(role))))
	if !role.Valid() {
		return nil, apperrors.NewInvalidInput("role is invalid", map[string]any{"field": "role"})
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "user", idDetails("id", id))
	}
	resolved, err := s.resolveAgencyForRole(ctx, role, agencyID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.AgencyID = resolved
	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeError(err, "user", idDetails("id", id))
	}
	s.logger.Info("role changed", zap.String("user_id", user.ID), zap.String("role", string(role)), zap.String("actor_id", actor.ID))
	return user, nil
}

// EnsureAdmin creates an administrator account when the email is unknown.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err := s.validator.ValidatePassword(password); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		FirstName:    "System",
		LastName:     "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	s.logger.Info("bootstrap administrator ensured", zap.String("email", email))
	return nil
}

func (s *AuthService) resolveAgencyForRole(ctx context.Context, role domain.Role, agencyID *string) (*string, error) {
	agencyID = trimmedPtr(agencyID)
	if role != domain.RoleAgencyStaff {
		if agencyID != nil {
			return nil, apperrors.NewInvalidInput("only agency staff may be linked to an agency", map[string]any{"field": "agencyId"})
		}
		return nil, nil
	}
	if agencyID == nil {
		return nil, apperrors.NewInvalidInput("agencyId is required for agency staff", map[string]any{"field": "agencyId"})
	}
	if _, err := s.agencies.GetByID(ctx, *agencyID); err != nil {
		return nil, storeError(err, "agency", idDetails("agencyId", *agencyID))
	}
	return agencyID, nil
}

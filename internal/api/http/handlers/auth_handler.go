package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/citizen-voice/feedback-service/internal/api/dto"
	"github.com/citizen-voice/feedback-service/internal/auth"
	"github.com/citizen-voice/feedback-service/internal/config"
	"github.com/citizen-voice/feedback-service/internal/service"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

// AuthHandler exposes registration, login and logout.
type AuthHandler struct {
	service *service.AuthService
	cookie  config.AuthConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{service: authService, cookie: cfg}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	user, err := h.service.Register(c.UserContext(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.RegisterResponse{
		ID:      user.ID,
		Message: "registration successful",
	}})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	user, cred, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setCookie(c, cred.Token, cred.ExpiresAt)
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     cred.Token,
		ExpiresAt: cred.ExpiresAt,
		User:      userResponse(user),
	}})
}

// Logout POST /auth/logout. Succeeds without a credential.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, _ := auth.TokenFromRequest(c, h.cookie.CookieName)
	if err := h.service.Logout(c.UserContext(), token); err != nil {
		return err
	}
	h.setCookie(c, "", time.Unix(0, 0))
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out"}})
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, value string, expires time.Time) {
	if h.cookie.CookieName == "" {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.CookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.cookie.CookieDomain,
		Expires:  expires,
		Secure:   h.cookie.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/citizen-voice/feedback-service/internal/api/dto"
	"github.com/citizen-voice/feedback-service/internal/auth"
	"github.com/citizen-voice/feedback-service/internal/service"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

// UsersHandler manages profile and account endpoints.
type UsersHandler struct {
	service *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{service: authService}
}

// GetUser GET /users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.service.ViewProfile(c.UserContext(), auth.ActorFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateUser PATCH /users/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	user, err := h.service.UpdateProfile(c.UserContext(), auth.ActorFromContext(c), c.Params("id"), service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Password:  req.Password,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// CreateUser POST /admin/users.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	user, err := h.service.CreateUser(c.UserContext(), auth.ActorFromContext(c), service.CreateUserInput{
		RegisterInput: service.RegisterInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
			Phone:     req.Phone,
			Address:   req.Address,
			City:      req.City,
			Country:   req.Country,
		},
		Role:     req.Role,
		AgencyID: req.AgencyID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateRole PATCH /admin/users/:id/role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	user, err := h.service.UpdateUserRole(c.UserContext(), auth.ActorFromContext(c), c.Params("id"), req.Role, req.AgencyID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

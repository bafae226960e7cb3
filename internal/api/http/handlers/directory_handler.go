package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/citizen-voice/feedback-service/internal/api/dto"
	"github.com/citizen-voice/feedback-service/internal/auth"
	"github.com/citizen-voice/feedback-service/internal/service"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

// DirectoryHandler manages agency and category endpoints.
type DirectoryHandler struct {
	service *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directoryService *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: directoryService}
}

func agencyInput(req dto.AgencyRequest) service.AgencyInput {
	return service.AgencyInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Description: req.Description,
	}
}

// CreateAgency POST /agencies.
func (h *DirectoryHandler) CreateAgency(c *fiber.Ctx) error {
	var req dto.AgencyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	agency, err := h.service.CreateAgency(c.UserContext(), auth.ActorFromContext(c), agencyInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": agencyResponse(agency)})
}

// UpdateAgency PATCH /agencies/:id.
func (h *DirectoryHandler) UpdateAgency(c *fiber.Ctx) error {
	var req dto.AgencyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	agency, err := h.service.UpdateAgency(c.UserContext(), auth.ActorFromContext(c), c.Params("id"), agencyInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agencyResponse(agency)})
}

// ListAgencies GET /agencies.
func (h *DirectoryHandler) ListAgencies(c *fiber.Ctx) error {
	agencies, err := h.service.ListAgencies(c.UserContext(), auth.ActorFromContext(c))
	if err != nil {
		return err
	}
	items := make([]dto.AgencyResponse, 0, len(agencies))
	for i := range agencies {
		items = append(items, agencyResponse(&agencies[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetAgency GET /agencies/:id.
func (h *DirectoryHandler) GetAgency(c *fiber.Ctx) error {
	agency, err := h.service.GetAgency(c.UserContext(), auth.ActorFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agencyResponse(agency)})
}

// CreateCategory POST /categories.
func (h *DirectoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	view, err := h.service.CreateCategory(c.UserContext(), auth.ActorFromContext(c), req.Name, req.AgencyID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": categoryResponse(view)})
}

// UpdateCategory PATCH /categories/:id.
func (h *DirectoryHandler) UpdateCategory(c *fiber.Ctx) error {
	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	view, err := h.service.UpdateCategory(c.UserContext(), auth.ActorFromContext(c), c.Params("id"), service.CategoryUpdate{
		Name:     req.Name,
		AgencyID: req.AgencyID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categoryResponse(view)})
}

// DeleteCategory DELETE /categories/:id.
func (h *DirectoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteCategory(c.UserContext(), auth.ActorFromContext(c), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "deleted": true}})
}

// ListCategories GET /categories.
func (h *DirectoryHandler) ListCategories(c *fiber.Ctx) error {
	views, err := h.service.ListCategories(c.UserContext(), auth.ActorFromContext(c))
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(views))
	for i := range views {
		items = append(items, categoryResponse(&views[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetCategory GET /categories/:id.
func (h *DirectoryHandler) GetCategory(c *fiber.Ctx) error {
	view, err := h.service.GetCategory(c.UserContext(), auth.ActorFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categoryResponse(view)})
}

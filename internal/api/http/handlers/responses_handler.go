package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/citizen-voice/feedback-service/internal/api/dto"
	"github.com/citizen-voice/feedback-service/internal/auth"
	"github.com/citizen-voice/feedback-service/internal/service"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

// ResponsesHandler handles admin response routes.
type ResponsesHandler struct {
	service *service.ResponseService
}

// NewResponsesHandler constructs handler.
func NewResponsesHandler(responseService *service.ResponseService) *ResponsesHandler {
	return &ResponsesHandler{service: responseService}
}

// Create POST /responses.
func (h *ResponsesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	actor := auth.ActorFromContext(c)
	if req.ResponderID == "" {
		req.ResponderID = actor.ID
	}
	response, err := h.service.AddResponse(c.UserContext(), actor, req.SubmissionID, req.ResponderID, req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": adminResponse(response)})
}

// Update PATCH /responses/:id.
func (h *ResponsesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	response, err := h.service.UpdateResponse(c.UserContext(), auth.ActorFromContext(c), c.Params("id"), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": adminResponse(response)})
}

// Get GET /responses/:id.
func (h *ResponsesHandler) Get(c *fiber.Ctx) error {
	detail, err := h.service.Get(c.UserContext(), auth.ActorFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ResponseDetailResponse{
		AdminResponseResponse: adminResponse(&detail.Response),
		Submission:            submissionDetailResponse(&detail.Submission),
		Responder:             userResponse(detail.Responder),
	}})
}

// ListComplaints GET /responses/complaints.
func (h *ResponsesHandler) ListComplaints(c *fiber.Ctx) error {
	responses, err := h.service.ListAllComplaintResponses(c.UserContext(), auth.ActorFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": responseList(responses)})
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/citizen-voice/feedback-service/internal/api/dto"
	"github.com/citizen-voice/feedback-service/internal/auth"
	"github.com/citizen-voice/feedback-service/internal/service"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

// SubmissionsHandler handles submission lifecycle and listing routes.
type SubmissionsHandler struct {
	submissions *service.SubmissionService
	query       *service.QueryService
	responses   *service.ResponseService
}

// NewSubmissionsHandler constructs handler.
func NewSubmissionsHandler(submissions *service.SubmissionService, query *service.QueryService, responses *service.ResponseService) *SubmissionsHandler {
	return &SubmissionsHandler{submissions: submissions, query: query, responses: responses}
}

// Create POST /submissions.
func (h *SubmissionsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	actor := auth.ActorFromContext(c)
	if req.UserID == "" {
		req.UserID = actor.ID
	}
	submission, err := h.submissions.Create(c.UserContext(), actor, service.CreateSubmissionInput{
		UserID:        req.UserID,
		CategoryID:    req.CategoryID,
		AgencyID:      req.AgencyID,
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		Location:      req.Location,
		AttachmentURL: req.AttachmentURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": submissionResponse(submission)})
}

// Update PATCH /submissions/:id.
func (h *SubmissionsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	submission, err := h.submissions.Update(c.UserContext(), auth.ActorFromContext(c), c.Params("id"), service.SubmissionUpdate{
		CategoryID:    req.CategoryID,
		AgencyID:      req.AgencyID,
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		Status:        req.Status,
		Location:      req.Location,
		AttachmentURL: req.AttachmentURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": submissionResponse(submission)})
}

// List GET /submissions. The filter is chosen by the query parameters:
// agencyId, categoryId or userId. With none of them the caller's complaints are listed.
func (h *SubmissionsHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actor := auth.ActorFromContext(c)
	rawType := c.Query("type")

	switch {
	case c.Query("agencyId") != "":
		submissions, err := h.query.ListByAgency(ctx, actor, c.Query("agencyId"), rawType)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": submissionList(submissions)})

	case c.Query("categoryId") != "":
		details, err := h.query.ListByCategory(ctx, actor, c.Query("categoryId"), rawType)
		if err != nil {
			return err
		}
		items := make([]dto.SubmissionDetailResponse, 0, len(details))
		for i := range details {
			items = append(items, submissionDetailResponse(&details[i]))
		}
		return c.JSON(fiber.Map{"data": items})

	case c.Query("userId") != "":
		threads, err := h.query.ListByUser(ctx, actor, c.Query("userId"))
		if err != nil {
			return err
		}
		items := make([]dto.SubmissionThreadResponse, 0, len(threads))
		for i := range threads {
			items = append(items, submissionThreadResponse(&threads[i]))
		}
		return c.JSON(fiber.Map{"data": items})

	case rawType != "":
		return apperrors.NewInvalidInput("type filter requires agencyId or categoryId", map[string]any{"field": "type"})
	}

	submissions, err := h.query.ListComplaints(ctx, actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": submissionList(submissions)})
}

// Summary GET /submissions/summary.
func (h *SubmissionsHandler) Summary(c *fiber.Ctx) error {
	rows, err := h.query.Summary(c.UserContext(), auth.ActorFromContext(c))
	if err != nil {
		return err
	}
	items := make([]dto.SubmissionSummaryResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, summaryResponse(row))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /submissions/:id.
func (h *SubmissionsHandler) Get(c *fiber.Ctx) error {
	detail, err := h.query.Detail(c.UserContext(), auth.ActorFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": submissionDetailResponse(detail)})
}

// Responses GET /submissions/:id/responses.
func (h *SubmissionsHandler) Responses(c *fiber.Ctx) error {
	responses, err := h.responses.ListBySubmission(c.UserContext(), auth.ActorFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": responseList(responses)})
}

// History GET /submissions/:id/history.
func (h *SubmissionsHandler) History(c *fiber.Ctx) error {
	entries, err := h.submissions.History(c.UserContext(), auth.ActorFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.HistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, historyResponse(entry))
	}
	return c.JSON(fiber.Map{"data": items})
}

package service

import (
	"context"
	"strings"

	"github.com/citizen-voice/feedback-service/internal/auth"
	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/events"
	"github.com/citizen-voice/feedback-service/internal/repository"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

// ResponseService manages staff responses on submissions.
type ResponseService struct {
	responses   repository.ResponseRepository
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	query       *QueryService
	dispatcher  events.Dispatcher
}

// ResponseDependencies bundles collaborators for the response service.
type ResponseDependencies struct {
	ResponseRepo   repository.ResponseRepository
	SubmissionRepo repository.SubmissionRepository
	UserRepo       repository.UserRepository
	Query          *QueryService
	Dispatcher     events.Dispatcher
}

// ResponseDetail is a response with its submission and the responder account.
type ResponseDetail struct {
	Response   domain.AdminResponse
	Submission SubmissionDetail
	Responder  *domain.User
}

// NewResponseService constructs the service.
func NewResponseService(deps ResponseDependencies) *ResponseService {
	return &ResponseService{
		responses:   deps.ResponseRepo,
		submissions: deps.SubmissionRepo,
		users:       deps.UserRepo,
		query:       deps.Query,
		dispatcher:  deps.Dispatcher,
	}
}

// AddResponse appends a message to a submission's thread.
func (s *ResponseService) AddResponse(ctx context.Context, actor auth.Actor, submissionID, responderID, message string) (*domain.AdminResponse, error) {
	if err := requireFields(
		field("submissionId", submissionID),
		field("responderId", responderID),
		field("message", message),
	); err != nil {
		return nil, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, storeError(err, "submission", idDetails("submissionId", submissionID))
	}
	responder, err := s.users.GetByID(ctx, responderID)
	if err != nil {
		return nil, storeError(err, "responder", idDetails("responderId", responderID))
	}

	if err := auth.CanRespond(actor, submission); err != nil {
		return nil, err
	}
	if responder.ID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("responses may only be posted as yourself")
	}
	if err := auth.CanRespond(auth.Actor{ID: responder.ID, Role: responder.Role, AgencyID: responder.AgencyID}, submission); err != nil {
		return nil, apperrors.NewForbidden("responder is not allowed to answer this submission")
	}

	response := &domain.AdminResponse{
		SubmissionID: submission.ID,
		ResponderID:  responder.ID,
		Message:      strings.TrimSpace(message),
	}
	if err := s.responses.Create(ctx, response); err != nil {
		return nil, storeError(err, "response", nil)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventResponseAdded, submission, eventActor(actor),
			events.ResponseAddedPayload{
				ResponseID:     response.ID,
				ResponderID:    response.ResponderID,
				MessagePreview: stringPreview(response.Message, 120),
			}))
	}
	return response, nil
}

// UpdateResponse replaces the message text of a response.
func (s *ResponseService) UpdateResponse(ctx context.Context, actor auth.Actor, id, message string) (*domain.AdminResponse, error) {
	if err := requireFields(field("id", id), field("message", message)); err != nil {
		return nil, err
	}
	response, err := s.responses.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "response", idDetails("id", id))
	}
	if err := auth.CanEditResponse(actor, response); err != nil {
		return nil, err
	}
	response.Message = strings.TrimSpace(message)
	if err := s.responses.Update(ctx, response); err != nil {
		return nil, storeError(err, "response", idDetails("id", id))
	}
	return response, nil
}

// ListBySubmission returns the thread oldest first.
func (s *ResponseService) ListBySubmission(ctx context.Context, actor auth.Actor, submissionID string) ([]domain.AdminResponse, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, storeError(err, "submission", idDetails("submissionId", submissionID))
	}
	if err := auth.CanReadSubmission(actor, submission); err != nil {
		return nil, err
	}
	responses, err := s.responses.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return responses, nil
}

// Get returns a response with its submission detail and responder.
func (s *ResponseService) Get(ctx context.Context, actor auth.Actor, id string) (*ResponseDetail, error) {
	response, err := s.responses.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "response", idDetails("id", id))
	}
	detail, err := s.query.Detail(ctx, actor, response.SubmissionID)
	if err != nil {
		return nil, err
	}
	responder, err := s.users.GetByID(ctx, response.ResponderID)
	if err != nil {
		return nil, storeError(err, "responder", idDetails("responderId", response.ResponderID))
	}
	return &ResponseDetail{Response: *response, Submission: *detail, Responder: responder}, nil
}

// ListAllComplaintResponses returns responses on complaints, newest first,
// limited to the caller's agency for staff.
func (s *ResponseService) ListAllComplaintResponses(ctx context.Context, actor auth.Actor) ([]domain.AdminResponse, error) {
	scope, err := auth.AgencyScope(actor)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses.ListBySubmissionType(ctx, domain.SubmissionTypeComplaint, scope)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return responses, nil
}

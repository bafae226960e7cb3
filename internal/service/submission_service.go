package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/citizen-voice/feedback-service/internal/auth"
	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/events"
	"github.com/citizen-voice/feedback-service/internal/repository"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

// SubmissionService coordinates the submission lifecycle.
type SubmissionService struct {
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	categories  repository.CategoryRepository
	agencies    repository.AgencyRepository
	history     repository.SubmissionHistoryRepository
	dispatcher  events.Dispatcher
	transitions domain.TransitionPolicy
	logger      *zap.Logger
}

// SubmissionDependencies bundles collaborators for the submission service.
type SubmissionDependencies struct {
	SubmissionRepo repository.SubmissionRepository
	UserRepo       repository.UserRepository
	CategoryRepo   repository.CategoryRepository
	AgencyRepo     repository.AgencyRepository
	HistoryRepo    repository.SubmissionHistoryRepository
	Dispatcher     events.Dispatcher
	Transitions    domain.TransitionPolicy
	Logger         *zap.Logger
}

// CreateSubmissionInput describes a new submission.
type CreateSubmissionInput struct {
	UserID        string
	CategoryID    string
	AgencyID      string
	Title         string
	Description   string
	Type          string
	Location      *string
	AttachmentURL *string
}

// SubmissionUpdate lists the fields an update may change. Nil fields are kept.
type SubmissionUpdate struct {
	CategoryID    *string
	AgencyID      *string
	Title         *string
	Description   *string
	Type          *string
	Status        *string
	Location      *string
	AttachmentURL *string
}

func (u SubmissionUpdate) change() auth.SubmissionChange {
	return auth.SubmissionChange{
		Content: u.Title != nil || u.Description != nil || u.Type != nil ||
			u.Location != nil || u.AttachmentURL != nil,
		Classification: u.CategoryID != nil || u.AgencyID != nil,
		Status:         u.Status != nil,
	}
}

// NewSubmissionService constructs the service. A nil transition policy is permissive.
func NewSubmissionService(deps SubmissionDependencies) *SubmissionService {
	transitions := deps.Transitions
	if transitions == nil {
		transitions = domain.PermissiveTransitions{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		submissions: deps.SubmissionRepo,
		users:       deps.UserRepo,
		categories:  deps.CategoryRepo,
		agencies:    deps.AgencyRepo,
		history:     deps.HistoryRepo,
		dispatcher:  deps.Dispatcher,
		transitions: transitions,
		logger:      logger,
	}
}

// Create validates references and stores a new OPEN submission.
func (s *SubmissionService) Create(ctx context.Context, actor auth.Actor, input CreateSubmissionInput) (*domain.Submission, error) {
	if err := requireFields(
		field("userId", input.UserID),
		field("categoryId", input.CategoryID),
		field("agencyId", input.AgencyID),
		field("title", input.Title),
		field("description", input.Description),
	); err != nil {
		return nil, err
	}
	submissionType, ok := domain.ParseSubmissionType(input.Type)
	if !ok {
		return nil, apperrors.NewInvalidInput("type is invalid", map[string]any{"field": "type", "value": input.Type})
	}
	if err := auth.CanCreateSubmission(actor, input.UserID, input.AgencyID); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, storeError(err, "user", idDetails("userId", input.UserID))
	}
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		return nil, storeError(err, "category", idDetails("categoryId", input.CategoryID))
	}
	if _, err := s.agencies.GetByID(ctx, input.AgencyID); err != nil {
		return nil, storeError(err, "agency", idDetails("agencyId", input.AgencyID))
	}

	submission := &domain.Submission{
		UserID:        input.UserID,
		CategoryID:    input.CategoryID,
		AgencyID:      input.AgencyID,
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Type:          submissionType,
		Status:        domain.StatusOpen,
		Location:      trimmedPtr(input.Location),
		AttachmentURL: trimmedPtr(input.AttachmentURL),
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, storeError(err, "submission", nil)
	}

	s.publishEvent(ctx, events.NewEvent(events.EventSubmissionCreated, submission, eventActor(actor),
		events.SubmissionCreatedPayload{
			UserID:     submission.UserID,
			CategoryID: submission.CategoryID,
			Type:       submission.Type,
			Status:     submission.Status,
			Title:      submission.Title,
		}))
	return submission, nil
}

// Update applies a partial change. Changed references are resolved before the
// write so a failed update leaves the stored row untouched.
func (s *SubmissionService) Update(ctx context.Context, actor auth.Actor, id string, update SubmissionUpdate) (*domain.Submission, error) {
	if err := requireFields(field("id", id)); err != nil {
		return nil, err
	}
	change := update.change()
	if !change.Content && !change.Classification && !change.Status {
		return nil, apperrors.NewInvalidInput("no fields to update", nil)
	}

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "submission", idDetails("id", id))
	}
	if err := auth.CanUpdateSubmission(actor, submission, change); err != nil {
		return nil, err
	}

	before := *submission
	var changed []string

	if update.Title != nil {
		if err := requireFields(field("title", *update.Title)); err != nil {
			return nil, err
		}
		submission.Title = strings.TrimSpace(*update.Title)
		changed = append(changed, "title")
	}
	if update.Description != nil {
		if err := requireFields(field("description", *update.Description)); err != nil {
			return nil, err
		}
		submission.Description = strings.TrimSpace(*update.Description)
		changed = append(changed, "description")
	}
	if update.Type != nil {
		submissionType, ok := domain.ParseSubmissionType(*update.Type)
		if !ok || strings.TrimSpace(*update.Type) == "" {
			return nil, apperrors.NewInvalidInput("type is invalid", map[string]any{"field": "type", "value": *update.Type})
		}
		submission.Type = submissionType
		changed = append(changed, "type")
	}
	if update.Location != nil {
		submission.Location = trimmedPtr(update.Location)
		changed = append(changed, "location")
	}
	if update.AttachmentURL != nil {
		submission.AttachmentURL = trimmedPtr(update.AttachmentURL)
		changed = append(changed, "attachmentUrl")
	}
	if update.Status != nil {
		status, ok := domain.ParseStatus(*update.Status)
		if !ok {
			return nil, apperrors.NewInvalidInput("status is invalid", map[string]any{"field": "status", "value": *update.Status})
		}
		if !s.transitions.Allow(submission.Status, status) {
			return nil, apperrors.NewInvalidInput("status transition not allowed", map[string]any{
				"from": submission.Status,
				"to":   status,
			})
		}
		submission.Status = status
		changed = append(changed, "status")
	}
	if update.CategoryID != nil {
		categoryID := strings.TrimSpace(*update.CategoryID)
		if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
			return nil, storeError(err, "category", idDetails("categoryId", categoryID))
		}
		submission.CategoryID = categoryID
		changed = append(changed, "categoryId")
	}
	if update.AgencyID != nil {
		agencyID := strings.TrimSpace(*update.AgencyID)
		if _, err := s.agencies.GetByID(ctx, agencyID); err != nil {
			return nil, storeError(err, "agency", idDetails("agencyId", agencyID))
		}
		submission.AgencyID = agencyID
		changed = append(changed, "agencyId")
	}

	if err := s.submissions.Update(ctx, submission); err != nil {
		return nil, storeError(err, "submission", idDetails("id", id))
	}

	s.recordChanges(ctx, actor.ID, &before, submission)

	evActor := eventActor(actor)
	s.publishEvent(ctx, events.NewEvent(events.EventSubmissionUpdated, submission, evActor,
		events.SubmissionUpdatedPayload{Fields: changed}))
	if before.Status != submission.Status {
		s.publishEvent(ctx, events.NewEvent(events.EventSubmissionStatusChanged, submission, evActor,
			events.SubmissionStatusChangedPayload{
				OldStatus: before.Status,
				NewStatus: submission.Status,
				Settled:   submission.Status.IsSettled(),
			}))
	}
	return submission, nil
}

// Get returns a submission the actor may read.
func (s *SubmissionService) Get(ctx context.Context, actor auth.Actor, id string) (*domain.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "submission", idDetails("id", id))
	}
	if err := auth.CanReadSubmission(actor, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// History returns the audit trail of a submission, oldest first.
func (s *SubmissionService) History(ctx context.Context, actor auth.Actor, id string) ([]domain.SubmissionHistory, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	if s.history == nil {
		return []domain.SubmissionHistory{}, nil
	}
	entries, err := s.history.ListBySubmission(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// recordChanges appends audit rows. The submission row is already written, so a
// failure here is logged rather than reported to the caller.
func (s *SubmissionService) recordChanges(ctx context.Context, actorID string, before, after *domain.Submission) {
	if s.history == nil {
		return
	}
	var entries []domain.SubmissionHistory
	if before.Status != after.Status {
		entries = append(entries, historyEntry(after.ID, actorID, domain.ChangeTypeStatus, string(before.Status), string(after.Status)))
	}
	if before.CategoryID != after.CategoryID {
		entries = append(entries, historyEntry(after.ID, actorID, domain.ChangeTypeCategory, before.CategoryID, after.CategoryID))
	}
	if before.AgencyID != after.AgencyID {
		entries = append(entries, historyEntry(after.ID, actorID, domain.ChangeTypeAgency, before.AgencyID, after.AgencyID))
	}
	for i := range entries {
		if err := s.history.Create(ctx, &entries[i]); err != nil {
			s.logger.Error("record submission history",
				zap.String("submission_id", after.ID),
				zap.String("change_type", string(entries[i].ChangeType)),
				zap.Error(err))
		}
	}
}

func historyEntry(submissionID, actorID string, changeType domain.SubmissionChangeType, oldValue, newValue string) domain.SubmissionHistory {
	return domain.SubmissionHistory{
		SubmissionID: submissionID,
		ChangedBy:    actorID,
		ChangeType:   changeType,
		OldValue:     oldValue,
		NewValue:     newValue,
	}
}

func (s *SubmissionService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func eventActor(actor auth.Actor) events.Actor {
	return events.Actor{UserID: actor.ID, Role: actor.Role}
}

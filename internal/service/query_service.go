package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/citizen-voice/feedback-service/internal/auth"
	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/repository"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

// QueryService serves the read-only submission projections.
type QueryService struct {
	submissions repository.SubmissionRepository
	responses   repository.ResponseRepository
	users       repository.UserRepository
	categories  repository.CategoryRepository
	agencies    repository.AgencyRepository
}

// QueryDependencies bundles repositories for the query service.
type QueryDependencies struct {
	SubmissionRepo repository.SubmissionRepository
	ResponseRepo   repository.ResponseRepository
	UserRepo       repository.UserRepository
	CategoryRepo   repository.CategoryRepository
	AgencyRepo     repository.AgencyRepository
}

// SubmissionDetail joins a submission with the names of what it references.
type SubmissionDetail struct {
	domain.Submission
	CategoryName string
	AgencyName   string
	AuthorName   string
}

// SubmissionThread is a submission with its responses, oldest first.
type SubmissionThread struct {
	domain.Submission
	Responses []domain.AdminResponse
}

// SubmissionSummary is the lightweight row of the all-submissions view.
type SubmissionSummary struct {
	ID         string
	Title      string
	Type       domain.SubmissionType
	Status     domain.SubmissionStatus
	Settled    bool
	UserID     string
	AgencyID   string
	CategoryID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewQueryService constructs the service.
func NewQueryService(deps QueryDependencies) *QueryService {
	return &QueryService{
		submissions: deps.SubmissionRepo,
		responses:   deps.ResponseRepo,
		users:       deps.UserRepo,
		categories:  deps.CategoryRepo,
		agencies:    deps.AgencyRepo,
	}
}

// ParseListType accepts COMPLAINT or FEEDBACK in any case.
func ParseListType(raw string) (domain.SubmissionType, error) {
	if strings.TrimSpace(raw) == "" {
		return "", apperrors.NewInvalidInput("type is required", map[string]any{"field": "type"})
	}
	submissionType, ok := domain.ParseSubmissionType(raw)
	if !ok || (submissionType != domain.SubmissionTypeComplaint && submissionType != domain.SubmissionTypeFeedback) {
		return "", apperrors.NewInvalidInput("type must be COMPLAINT or FEEDBACK", map[string]any{"field": "type", "value": raw})
	}
	return submissionType, nil
}

// ListByAgency returns an agency's submissions of one type.
func (s *QueryService) ListByAgency(ctx context.Context, actor auth.Actor, agencyID, rawType string) ([]domain.Submission, error) {
	if err := requireFields(field("agencyId", agencyID)); err != nil {
		return nil, err
	}
	submissionType, err := ParseListType(rawType)
	if err != nil {
		return nil, err
	}
	if _, err := s.agencies.GetByID(ctx, agencyID); err != nil {
		return nil, storeError(err, "agency", idDetails("agencyId", agencyID))
	}
	if err := auth.CanListAgency(actor, agencyID); err != nil {
		return nil, err
	}
	return s.list(ctx, repository.SubmissionFilter{AgencyID: &agencyID, Type: &submissionType})
}

// ListByCategory returns a category's submissions of one type with names joined.
func (s *QueryService) ListByCategory(ctx context.Context, actor auth.Actor, categoryID, rawType string) ([]SubmissionDetail, error) {
	if err := requireFields(field("categoryId", categoryID)); err != nil {
		return nil, err
	}
	submissionType, err := ParseListType(rawType)
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, storeError(err, "category", idDetails("categoryId", categoryID))
	}
	scope, err := auth.AgencyScope(actor)
	if err != nil {
		return nil, err
	}
	submissions, err := s.list(ctx, repository.SubmissionFilter{
		CategoryID: &categoryID,
		AgencyID:   scope,
		Type:       &submissionType,
	})
	if err != nil {
		return nil, err
	}
	return s.details(ctx, submissions)
}

// ListByUser returns a user's submissions each with its response thread.
// Staff only see the rows their agency owns.
func (s *QueryService) ListByUser(ctx context.Context, actor auth.Actor, userID string) ([]SubmissionThread, error) {
	if err := requireFields(field("userId", userID)); err != nil {
		return nil, err
	}
	if err := auth.CanListUser(actor, userID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, storeError(err, "user", idDetails("userId", userID))
	}
	submissions, err := s.list(ctx, repository.SubmissionFilter{UserID: &userID})
	if err != nil {
		return nil, err
	}

	threads := make([]SubmissionThread, 0, len(submissions))
	for _, submission := range submissions {
		if auth.CanReadSubmission(actor, &submission) != nil {
			continue
		}
		responses, err := s.responses.ListBySubmission(ctx, submission.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if responses == nil {
			responses = []domain.AdminResponse{}
		}
		threads = append(threads, SubmissionThread{Submission: submission, Responses: responses})
	}
	return threads, nil
}

// Detail returns one submission with category, agency and author names.
func (s *QueryService) Detail(ctx context.Context, actor auth.Actor, id string) (*SubmissionDetail, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "submission", idDetails("id", id))
	}
	if err := auth.CanReadSubmission(actor, submission); err != nil {
		return nil, err
	}
	details, err := s.details(ctx, []domain.Submission{*submission})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// Summary lists every submission of every type as lightweight rows.
func (s *QueryService) Summary(ctx context.Context, actor auth.Actor) ([]SubmissionSummary, error) {
	scope, err := auth.AgencyScope(actor)
	if err != nil {
		return nil, err
	}
	submissions, err := s.list(ctx, repository.SubmissionFilter{AgencyID: scope})
	if err != nil {
		return nil, err
	}
	rows := make([]SubmissionSummary, 0, len(submissions))
	for _, submission := range submissions {
		rows = append(rows, SubmissionSummary{
			ID:         submission.ID,
			Title:      submission.Title,
			Type:       submission.Type,
			Status:     submission.Status,
			Settled:    submission.Status.IsSettled(),
			UserID:     submission.UserID,
			AgencyID:   submission.AgencyID,
			CategoryID: submission.CategoryID,
			CreatedAt:  submission.CreatedAt,
			UpdatedAt:  submission.UpdatedAt,
		})
	}
	return rows, nil
}

// ListComplaints is the unfiltered listing: every COMPLAINT visible to the caller.
func (s *QueryService) ListComplaints(ctx context.Context, actor auth.Actor) ([]domain.Submission, error) {
	scope, err := auth.AgencyScope(actor)
	if err != nil {
		return nil, err
	}
	complaint := domain.SubmissionTypeComplaint
	return s.list(ctx, repository.SubmissionFilter{AgencyID: scope, Type: &complaint})
}

func (s *QueryService) list(ctx context.Context, filter repository.SubmissionFilter) ([]domain.Submission, error) {
	submissions, err := s.submissions.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if submissions == nil {
		submissions = []domain.Submission{}
	}
	return submissions, nil
}

// details joins names with one lookup per distinct referenced row.
func (s *QueryService) details(ctx context.Context, submissions []domain.Submission) ([]SubmissionDetail, error) {
	categoryNames := map[string]string{}
	agencyNames := map[string]string{}
	authorNames := map[string]string{}

	out := make([]SubmissionDetail, 0, len(submissions))
	for _, submission := range submissions {
		categoryName, err := lookupName(ctx, categoryNames, submission.CategoryID, func(ctx context.Context, id string) (string, error) {
			category, err := s.categories.GetByID(ctx, id)
			if err != nil {
				return "", err
			}
			return category.Name, nil
		})
		if err != nil {
			return nil, err
		}
		agencyName, err := lookupName(ctx, agencyNames, submission.AgencyID, func(ctx context.Context, id string) (string, error) {
			agency, err := s.agencies.GetByID(ctx, id)
			if err != nil {
				return "", err
			}
			return agency.Name, nil
		})
		if err != nil {
			return nil, err
		}
		authorName, err := lookupName(ctx, authorNames, submission.UserID, func(ctx context.Context, id string) (string, error) {
			user, err := s.users.GetByID(ctx, id)
			if err != nil {
				return "", err
			}
			return user.FullName(), nil
		})
		if err != nil {
			return nil, err
		}
		out = append(out, SubmissionDetail{
			Submission:   submission,
			CategoryName: categoryName,
			AgencyName:   agencyName,
			AuthorName:   authorName,
		})
	}
	return out, nil
}

// lookupName memoizes fetch. A row deleted after the submission was written
// yields an empty name.
func lookupName(ctx context.Context, cache map[string]string, id string, fetch func(context.Context, string) (string, error)) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	name, err := fetch(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", apperrors.MapError(err)
	}
	cache[id] = name
	return name, nil
}

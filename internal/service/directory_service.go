package service

import (
	"context"
	"errors"
	"strings"

	"github.com/citizen-voice/feedback-service/internal/auth"
	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/repository"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

const minAgencyPhoneLength = 5

// DirectoryService manages agencies and categories.
type DirectoryService struct {
	agencies    repository.AgencyRepository
	categories  repository.CategoryRepository
	submissions repository.SubmissionRepository
}

// DirectoryDependencies encapsulates repositories required for the directory.
type DirectoryDependencies struct {
	AgencyRepo     repository.AgencyRepository
	CategoryRepo   repository.CategoryRepository
	SubmissionRepo repository.SubmissionRepository
}

// AgencyInput carries agency fields. On update nil fields are kept.
type AgencyInput struct {
	Name        *string
	Email       *string
	Phone       *string
	Address     *string
	Description *string
}

// CategoryUpdate carries category fields to change.
type CategoryUpdate struct {
	Name     *string
	AgencyID *string
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{
		agencies:    deps.AgencyRepo,
		categories:  deps.CategoryRepo,
		submissions: deps.SubmissionRepo,
	}
}

// CreateAgency validates and stores a new agency.
func (s *DirectoryService) CreateAgency(ctx context.Context, actor auth.Actor, input AgencyInput) (*domain.Agency, error) {
	if err := auth.CanManageDirectory(actor); err != nil {
		return nil, err
	}
	name := ""
	if input.Name != nil {
		name = *input.Name
	}
	if err := requireFields(field("name", name)); err != nil {
		return nil, err
	}
	agency := &domain.Agency{}
	if err := applyAgencyInput(agency, input); err != nil {
		return nil, err
	}
	if err := s.agencies.Create(ctx, agency); err != nil {
		return nil, storeError(err, "agency", nil)
	}
	return agency, nil
}

// UpdateAgency applies the supplied fields to an existing agency.
func (s *DirectoryService) UpdateAgency(ctx context.Context, actor auth.Actor, id string, input AgencyInput) (*domain.Agency, error) {
	if err := auth.CanManageDirectory(actor); err != nil {
		return nil, err
	}
	agency, err := s.agencies.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "agency", idDetails("id", id))
	}
	if err := applyAgencyInput(agency, input); err != nil {
		return nil, err
	}
	if err := s.agencies.Update(ctx, agency); err != nil {
		return nil, storeError(err, "agency", idDetails("id", id))
	}
	return agency, nil
}

func applyAgencyInput(agency *domain.Agency, input AgencyInput) error {
	if input.Name != nil {
		if err := requireFields(field("name", *input.Name)); err != nil {
			return err
		}
		agency.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := trimmedPtr(input.Email)
		if email != nil && !validEmail(*email) {
			return apperrors.NewInvalidInput("email is invalid", map[string]any{"field": "email"})
		}
		agency.Email = email
	}
	if input.Phone != nil {
		phone := trimmedPtr(input.Phone)
		if phone != nil && len(*phone) < minAgencyPhoneLength {
			return apperrors.NewInvalidInput("phone is too short", map[string]any{"field": "phone", "minLength": minAgencyPhoneLength})
		}
		agency.Phone = phone
	}
	if input.Address != nil {
		agency.Address = trimmedPtr(input.Address)
	}
	if input.Description != nil {
		agency.Description = trimmedPtr(input.Description)
	}
	return nil
}

// ListAgencies returns all agencies ordered by name.
func (s *DirectoryService) ListAgencies(ctx context.Context, actor auth.Actor) ([]domain.Agency, error) {
	if err := auth.CanReadDirectory(actor); err != nil {
		return nil, err
	}
	agencies, err := s.agencies.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agencies, nil
}

// GetAgency fetches one agency.
func (s *DirectoryService) GetAgency(ctx context.Context, actor auth.Actor, id string) (*domain.Agency, error) {
	if err := auth.CanReadDirectory(actor); err != nil {
		return nil, err
	}
	agency, err := s.agencies.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "agency", idDetails("id", id))
	}
	return agency, nil
}

// CreateCategory stores a category under an existing agency.
func (s *DirectoryService) CreateCategory(ctx context.Context, actor auth.Actor, name, agencyID string) (*domain.CategoryView, error) {
	if err := auth.CanManageDirectory(actor); err != nil {
		return nil, err
	}
	if err := requireFields(field("name", name), field("agencyId", agencyID)); err != nil {
		return nil, err
	}
	agency, err := s.agencies.GetByID(ctx, agencyID)
	if err != nil {
		return nil, storeError(err, "agency", idDetails("agencyId", agencyID))
	}
	category := &domain.Category{
		Name:     strings.TrimSpace(name),
		AgencyID: agency.ID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, storeError(err, "agency", idDetails("agencyId", agencyID))
	}
	return &domain.CategoryView{Category: *category, AgencyName: agency.Name}, nil
}

// UpdateCategory renames or moves a category.
func (s *DirectoryService) UpdateCategory(ctx context.Context, actor auth.Actor, id string, update CategoryUpdate) (*domain.CategoryView, error) {
	if err := auth.CanManageDirectory(actor); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "category", idDetails("id", id))
	}
	if update.Name != nil {
		if err := requireFields(field("name", *update.Name)); err != nil {
			return nil, err
		}
		category.Name = strings.TrimSpace(*update.Name)
	}
	if update.AgencyID != nil {
		if err := requireFields(field("agencyId", *update.AgencyID)); err != nil {
			return nil, err
		}
		category.AgencyID = strings.TrimSpace(*update.AgencyID)
	}
	agency, err := s.agencies.GetByID(ctx, category.AgencyID)
	if err != nil {
		return nil, storeError(err, "agency", idDetails("agencyId", category.AgencyID))
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, storeError(err, "category", idDetails("id", id))
	}
	return &domain.CategoryView{Category: *category, AgencyName: agency.Name}, nil
}

// DeleteCategory removes a category that no submission references.
func (s *DirectoryService) DeleteCategory(ctx context.Context, actor auth.Actor, id string) error {
	if err := auth.CanManageDirectory(actor); err != nil {
		return err
	}
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return storeError(err, "category", idDetails("id", id))
	}
	inUse, err := s.submissions.ExistsByCategory(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if inUse {
		return apperrors.NewConflict("category is referenced by submissions", idDetails("id", id))
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return storeError(err, "category", idDetails("id", id))
	}
	return nil
}

// ListCategories returns categories with their agency names.
func (s *DirectoryService) ListCategories(ctx context.Context, actor auth.Actor) ([]domain.CategoryView, error) {
	if err := auth.CanReadDirectory(actor); err != nil {
		return nil, err
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	names, err := s.agencyNames(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]domain.CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, domain.CategoryView{Category: category, AgencyName: names[category.AgencyID]})
	}
	return views, nil
}

// GetCategory fetches one category with its agency name.
func (s *DirectoryService) GetCategory(ctx context.Context, actor auth.Actor, id string) (*domain.CategoryView, error) {
	if err := auth.CanReadDirectory(actor); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "category", idDetails("id", id))
	}
	view := &domain.CategoryView{Category: *category}
	agency, err := s.agencies.GetByID(ctx, category.AgencyID)
	switch {
	case err == nil:
		view.AgencyName = agency.Name
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.MapError(err)
	}
	return view, nil
}

func (s *DirectoryService) agencyNames(ctx context.Context) (map[string]string, error) {
	agencies, err := s.agencies.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	names := make(map[string]string, len(agencies))
	for _, agency := range agencies {
		names[agency.ID] = agency.Name
	}
	return names, nil
}

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/repository"
)

type seeded struct {
	store    *repository.Store
	agency   *domain.Agency
	category *domain.Category
	citizen  *domain.User
}

func seed(t *testing.T) seeded {
	t.Helper()
	ctx := context.Background()
	store := NewStore()

	agency := &domain.Agency{Name: "Roads"}
	require.NoError(t, store.Agencies.Create(ctx, agency))
	category := &domain.Category{Name: "Potholes", AgencyID: agency.ID}
	require.NoError(t, store.Categories.Create(ctx, category))
	citizen := &domain.User{FirstName: "Ada", Email: "Ada@Example.com", Role: domain.RoleCitizen}
	require.NoError(t, store.Users.Create(ctx, citizen))

	return seeded{store: store, agency: agency, category: category, citizen: citizen}
}

func (s seeded) submission(t *testing.T, title string, typ domain.SubmissionType) *domain.Submission {
	t.Helper()
	sub := &domain.Submission{
		UserID:      s.citizen.ID,
		CategoryID:  s.category.ID,
		AgencyID:    s.agency.ID,
		Title:       title,
		Description: "details",
		Type:        typ,
		Status:      domain.StatusOpen,
	}
	require.NoError(t, s.store.Submissions.Create(context.Background(), sub))
	return sub
}

func TestUsers_EmailIsCaseInsensitiveAndUnique(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	found, err := s.store.Users.GetByEmail(ctx, "ada@example.COM")
	require.NoError(t, err)
	assert.Equal(t, s.citizen.ID, found.ID)

	err = s.store.Users.Create(ctx, &domain.User{Email: "ADA@example.com", Role: domain.RoleCitizen})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = s.store.Users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUsers_ReturnedValuesAreCopies(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	got, err := s.store.Users.GetByID(ctx, s.citizen.ID)
	require.NoError(t, err)
	got.FirstName = "Mutated"

	again, err := s.store.Users.GetByID(ctx, s.citizen.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.FirstName)
}

func TestCategories_RequireExistingAgency(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	err := s.store.Categories.Create(ctx, &domain.Category{Name: "Ghost", AgencyID: "does-not-exist"})
	assert.ErrorIs(t, err, repository.ErrReferenced)

	list, err := s.store.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Potholes", list[0].Name)
}

func TestCategories_DeleteReferencedFails(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	s.submission(t, "Pothole", domain.SubmissionTypeComplaint)

	assert.ErrorIs(t, s.store.Categories.Delete(ctx, s.category.ID), repository.ErrReferenced)
	assert.ErrorIs(t, s.store.Categories.Delete(ctx, "missing"), repository.ErrNotFound)

	exists, err := s.store.Submissions.ExistsByCategory(ctx, s.category.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSubmissions_ListFiltersNewestFirst(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	first := s.submission(t, "first", domain.SubmissionTypeComplaint)
	s.submission(t, "feedback", domain.SubmissionTypeFeedback)
	third := s.submission(t, "third", domain.SubmissionTypeComplaint)

	complaint := domain.SubmissionTypeComplaint
	list, err := s.store.Submissions.List(ctx, repository.SubmissionFilter{AgencyID: &s.agency.ID, Type: &complaint})

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, third.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestSubmissions_UpdateBumpsTimestampAndKeepsAuthor(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	sub := s.submission(t, "Pothole", domain.SubmissionTypeComplaint)
	created := sub.UpdatedAt

	sub.Status = domain.StatusInProgress
	sub.UserID = "someone-else"
	require.NoError(t, s.store.Submissions.Update(ctx, sub))

	stored, err := s.store.Submissions.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, stored.Status)
	assert.Equal(t, s.citizen.ID, stored.UserID)
	assert.True(t, stored.UpdatedAt.After(created))
	assert.True(t, stored.CreatedAt.Equal(created))
}

func TestSubmissions_UpdateMissing(t *testing.T) {
	s := seed(t)
	err := s.store.Submissions.Update(context.Background(), &domain.Submission{ID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestResponses_Ordering(t *testing.T) {
	// Arrange
	s := seed(t)
	ctx := context.Background()
	complaint := s.submission(t, "Pothole", domain.SubmissionTypeComplaint)
	feedback := s.submission(t, "Nice park", domain.SubmissionTypeFeedback)
	first := &domain.AdminResponse{SubmissionID: complaint.ID, ResponderID: s.citizen.ID, Message: "one"}
	second := &domain.AdminResponse{SubmissionID: complaint.ID, ResponderID: s.citizen.ID, Message: "two"}
	other := &domain.AdminResponse{SubmissionID: feedback.ID, ResponderID: s.citizen.ID, Message: "thanks"}

	// Act
	for _, r := range []*domain.AdminResponse{first, second, other} {
		require.NoError(t, s.store.Responses.Create(ctx, r))
	}
	thread, err := s.store.Responses.ListBySubmission(ctx, complaint.ID)
	require.NoError(t, err)
	onComplaints, err := s.store.Responses.ListBySubmissionType(ctx, domain.SubmissionTypeComplaint, nil)
	require.NoError(t, err)

	// Assert
	require.Len(t, thread, 2)
	assert.Equal(t, "one", thread[0].Message)
	assert.Equal(t, "two", thread[1].Message)
	require.Len(t, onComplaints, 2)
	assert.Equal(t, "two", onComplaints[0].Message)
}

func TestResponses_ScopedByAgency(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	complaint := s.submission(t, "Pothole", domain.SubmissionTypeComplaint)
	require.NoError(t, s.store.Responses.Create(ctx, &domain.AdminResponse{
		SubmissionID: complaint.ID, ResponderID: s.citizen.ID, Message: "on it",
	}))

	other := "other-agency"
	scoped, err := s.store.Responses.ListBySubmissionType(ctx, domain.SubmissionTypeComplaint, &other)

	require.NoError(t, err)
	assert.Empty(t, scoped)
}

func TestHistory_AppendOnlyInOrder(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	sub := s.submission(t, "Pothole", domain.SubmissionTypeComplaint)

	for _, next := range []string{"IN_PROGRESS", "RESOLVED"} {
		require.NoError(t, s.store.History.Create(ctx, &domain.SubmissionHistory{
			SubmissionID: sub.ID, ChangedBy: s.citizen.ID, ChangeType: domain.ChangeTypeStatus, NewValue: next,
		}))
	}

	entries, err := s.store.History.ListBySubmission(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "IN_PROGRESS", entries[0].NewValue)
	assert.Equal(t, "RESOLVED", entries[1].NewValue)
}

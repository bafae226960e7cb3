package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/events"
	"github.com/citizen-voice/feedback-service/internal/repository"
	apperrors "github.com/citizen-voice/feedback-service/pkg/util/errorutil"
)

func TestCreateSubmission(t *testing.T) {
	// Arrange
	env := newTestEnv(t, nil)

	// Act
	submission, err := env.submissions.Create(env.ctx, env.citizen, CreateSubmissionInput{
		UserID:      env.citizen.ID,
		CategoryID:  env.c1.ID,
		AgencyID:    env.g1.ID,
		Title:       " Pothole ",
		Description: "Deep hole",
		Location:    ptr("Main St"),
	})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, submission.ID)
	assert.Equal(t, "Pothole", submission.Title)
	assert.Equal(t, domain.SubmissionTypeComplaint, submission.Type)
	assert.Equal(t, domain.StatusOpen, submission.Status)
	assert.False(t, submission.CreatedAt.IsZero())

	created := env.recorder.ofType(events.EventSubmissionCreated)
	require.Len(t, created, 1)
	assert.Equal(t, submission.ID, created[0].SubmissionID)
	assert.Equal(t, env.g1.ID, created[0].AgencyID)
}

func TestCreateSubmission_Validation(t *testing.T) {
	env := newTestEnv(t, nil)
	valid := func() CreateSubmissionInput {
		return CreateSubmissionInput{
			UserID:      env.citizen.ID,
			CategoryID:  env.c1.ID,
			AgencyID:    env.g1.ID,
			Title:       "Pothole",
			Description: "Deep hole",
			Type:        "feedback",
		}
	}

	tests := []struct {
		name   string
		mutate func(*CreateSubmissionInput)
		code   string
	}{
		{"missing title", func(in *CreateSubmissionInput) { in.Title = "" }, apperrors.CodeInvalidInput},
		{"missing description", func(in *CreateSubmissionInput) { in.Description = " " }, apperrors.CodeInvalidInput},
		{"missing category", func(in *CreateSubmissionInput) { in.CategoryID = "" }, apperrors.CodeInvalidInput},
		{"bad type", func(in *CreateSubmissionInput) { in.Type = "rant" }, apperrors.CodeInvalidInput},
		{"unknown category", func(in *CreateSubmissionInput) { in.CategoryID = "missing" }, apperrors.CodeNotFound},
		{"unknown agency", func(in *CreateSubmissionInput) { in.AgencyID = "missing" }, apperrors.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid()
			tt.mutate(&input)

			_, err := env.submissions.Create(env.ctx, env.citizen, input)

			assertCode(t, err, tt.code)
		})
	}

	all, err := env.store.Submissions.List(env.ctx, repository.SubmissionFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateSubmission_OnBehalf(t *testing.T) {
	env := newTestEnv(t, nil)
	input := CreateSubmissionInput{
		UserID:      env.citizen.ID,
		CategoryID:  env.c1.ID,
		AgencyID:    env.g1.ID,
		Title:       "Pothole",
		Description: "Reported by phone",
	}

	_, err := env.submissions.Create(env.ctx, env.citizen2, input)
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = env.submissions.Create(env.ctx, env.staffG2, input)
	assertCode(t, err, apperrors.CodeForbidden)

	submission, err := env.submissions.Create(env.ctx, env.staffG1, input)
	require.NoError(t, err)
	assert.Equal(t, env.citizen.ID, submission.UserID)

	input.UserID = "missing"
	_, err = env.submissions.Create(env.ctx, env.admin, input)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestUpdateSubmission_AuthorEditsContent(t *testing.T) {
	env := newTestEnv(t, nil)
	submission := env.mustSubmission(t, env.citizen, "Pothole", "COMPLAINT")

	updated, err := env.submissions.Update(env.ctx, env.citizen, submission.ID, SubmissionUpdate{
		Title: ptr("Two potholes"),
		Type:  ptr("suggestion"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Two potholes", updated.Title)
	assert.Equal(t, domain.SubmissionTypeSuggestion, updated.Type)
	assert.Equal(t, domain.StatusOpen, updated.Status)
	assert.True(t, updated.UpdatedAt.After(submission.UpdatedAt))

	_, err = env.submissions.Update(env.ctx, env.citizen, submission.ID, SubmissionUpdate{Status: ptr("RESOLVED")})
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestUpdateSubmission_StaffChangesStatus(t *testing.T) {
	// Arrange
	env := newTestEnv(t, nil)
	submission := env.mustSubmission(t, env.citizen, "Pothole", "COMPLAINT")

	// Act
	updated, err := env.submissions.Update(env.ctx, env.staffG1, submission.ID, SubmissionUpdate{Status: ptr("resolved")})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, updated.Status)

	history, err := env.submissions.History(env.ctx, env.citizen, submission.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.ChangeTypeStatus, history[0].ChangeType)
	assert.Equal(t, "OPEN", history[0].OldValue)
	assert.Equal(t, "RESOLVED", history[0].NewValue)
	assert.Equal(t, env.staffG1.ID, history[0].ChangedBy)

	changed := env.recorder.ofType(events.EventSubmissionStatusChanged)
	require.Len(t, changed, 1)
	payload, ok := changed[0].Payload.(events.SubmissionStatusChangedPayload)
	require.True(t, ok)
	assert.True(t, payload.Settled)
}

func TestUpdateSubmission_Rejections(t *testing.T) {
	env := newTestEnv(t, nil)
	submission := env.mustSubmission(t, env.citizen, "Pothole", "COMPLAINT")

	_, err := env.submissions.Update(env.ctx, env.staffG1, submission.ID, SubmissionUpdate{})
	assertCode(t, err, apperrors.CodeInvalidInput)

	_, err = env.submissions.Update(env.ctx, env.staffG1, submission.ID, SubmissionUpdate{Status: ptr("ON_HOLD")})
	assertCode(t, err, apperrors.CodeInvalidInput)

	_, err = env.submissions.Update(env.ctx, env.staffG2, submission.ID, SubmissionUpdate{Status: ptr("CLOSED")})
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = env.submissions.Update(env.ctx, env.staffG1, submission.ID, SubmissionUpdate{Title: ptr("Edited")})
	assertCode(t, err, apperrors.CodeForbidden)

	_, err = env.submissions.Update(env.ctx, env.admin, "missing", SubmissionUpdate{Status: ptr("CLOSED")})
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestUpdateSubmission_FailedUpdateLeavesRowUntouched(t *testing.T) {
	env := newTestEnv(t, nil)
	submission := env.mustSubmission(t, env.citizen, "Pothole", "COMPLAINT")

	_, err := env.submissions.Update(env.ctx, env.citizen, submission.ID, SubmissionUpdate{
		Title:      ptr("Changed"),
		CategoryID: ptr("missing"),
	})

	assertCode(t, err, apperrors.CodeNotFound)
	stored, err := env.store.Submissions.GetByID(env.ctx, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pothole", stored.Title)
	assert.Equal(t, env.c1.ID, stored.CategoryID)
}

func TestUpdateSubmission_ReroutingRecordsHistory(t *testing.T) {
	env := newTestEnv(t, nil)
	submission := env.mustSubmission(t, env.citizen, "Pothole", "COMPLAINT")

	updated, err := env.submissions.Update(env.ctx, env.admin, submission.ID, SubmissionUpdate{
		CategoryID: ptr(env.c2.ID),
		AgencyID:   ptr(env.g2.ID),
		Status:     ptr("UNDER_REVIEW"),
	})
	require.NoError(t, err)
	assert.Equal(t, env.g2.ID, updated.AgencyID)

	history, err := env.submissions.History(env.ctx, env.admin, submission.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.ChangeTypeStatus, history[0].ChangeType)
	assert.Equal(t, domain.ChangeTypeCategory, history[1].ChangeType)
	assert.Equal(t, domain.ChangeTypeAgency, history[2].ChangeType)

	_, err = env.submissions.Get(env.ctx, env.staffG1, submission.ID)
	assertCode(t, err, apperrors.CodeForbidden)
	_, err = env.submissions.Get(env.ctx, env.staffG2, submission.ID)
	assert.NoError(t, err)
}

func TestUpdateSubmission_StrictTransitions(t *testing.T) {
	env := newTestEnv(t, domain.DefaultTransitionTable())
	submission := env.mustSubmission(t, env.citizen, "Pothole", "COMPLAINT")

	_, err := env.submissions.Update(env.ctx, env.staffG1, submission.ID, SubmissionUpdate{Status: ptr("CLOSED")})
	require.NoError(t, err)

	_, err = env.submissions.Update(env.ctx, env.staffG1, submission.ID, SubmissionUpdate{Status: ptr("OPEN")})
	assertCode(t, err, apperrors.CodeInvalidInput)

	stored, err := env.store.Submissions.GetByID(env.ctx, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, stored.Status)
}

func TestUpdateSubmission_PermissiveAllowsReopen(t *testing.T) {
	env := newTestEnv(t, nil)
	submission := env.mustSubmission(t, env.citizen, "Pothole", "COMPLAINT")

	_, err := env.submissions.Update(env.ctx, env.staffG1, submission.ID, SubmissionUpdate{Status: ptr("CLOSED")})
	require.NoError(t, err)
	reopened, err := env.submissions.Update(env.ctx, env.staffG1, submission.ID, SubmissionUpdate{Status: ptr("OPEN")})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, reopened.Status)
}

// orderedSubmissions records the status of every applied write in store order.
type orderedSubmissions struct {
	repository.SubmissionRepository
	mu      sync.Mutex
	applied []domain.SubmissionStatus
}

func (o *orderedSubmissions) Update(ctx context.Context, s *domain.Submission) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.SubmissionRepository.Update(ctx, s); err != nil {
		return err
	}
	o.applied = append(o.applied, s.Status)
	return nil
}

func TestUpdateSubmission_ConcurrentStatusIsLastWriteWins(t *testing.T) {
	// Arrange
	env := newTestEnv(t, nil)
	submission := env.mustSubmission(t, env.citizen, "Pothole", "COMPLAINT")
	ordered := &orderedSubmissions{SubmissionRepository: env.store.Submissions}
	svc := NewSubmissionService(SubmissionDependencies{
		SubmissionRepo: ordered,
		UserRepo:       env.store.Users,
		CategoryRepo:   env.store.Categories,
		AgencyRepo:     env.store.Agencies,
		HistoryRepo:    env.store.History,
	})

	// Act
	var wg sync.WaitGroup
	for _, status := range []string{"IN_PROGRESS", "RESOLVED"} {
		wg.Add(1)
		go func(status string) {
			defer wg.Done()
			_, err := svc.Update(env.ctx, env.staffG1, submission.ID, SubmissionUpdate{Status: ptr(status)})
			assert.NoError(t, err)
		}(status)
	}
	wg.Wait()

	// Assert
	require.Len(t, ordered.applied, 2)
	stored, err := env.store.Submissions.GetByID(env.ctx, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, ordered.applied[1], stored.Status)
	assert.Equal(t, "Pothole", stored.Title)
}

package memory

import (
	"context"

	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/repository"
)

type submissionRepository struct {
	db *db
}

func cloneSubmission(s domain.Submission) domain.Submission {
	s.Location = cloneString(s.Location)
	s.AttachmentURL = cloneString(s.AttachmentURL)
	return s
}

func newestFirst[T any](created func(T) int64) func(a, b T) int {
	return func(a, b T) int {
		ca, cb := created(a), created(b)
		switch {
		case ca > cb:
			return -1
		case ca < cb:
			return 1
		}
		return 0
	}
}

func (r *submissionRepository) Create(_ context.Context, submission *domain.Submission) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.checkReferences(submission); err != nil {
		return err
	}
	if _, ok := r.db.users[submission.UserID]; !ok {
		return repository.ErrReferenced
	}

	id, seq, now := r.db.next()
	submission.ID = id
	submission.CreatedAt = now
	submission.UpdatedAt = now
	r.db.submissions[id] = record[domain.Submission]{seq: seq, value: cloneSubmission(*submission)}
	return nil
}

func (r *submissionRepository) checkReferences(submission *domain.Submission) error {
	if _, ok := r.db.categories[submission.CategoryID]; !ok {
		return repository.ErrReferenced
	}
	if _, ok := r.db.agencies[submission.AgencyID]; !ok {
		return repository.ErrReferenced
	}
	return nil
}

func (r *submissionRepository) Update(_ context.Context, submission *domain.Submission) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.submissions[submission.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.checkReferences(submission); err != nil {
		return err
	}
	updated := cloneSubmission(*submission)
	updated.UserID = existing.value.UserID
	updated.CreatedAt = existing.value.CreatedAt
	updated.UpdatedAt = r.db.tick()
	submission.UpdatedAt = updated.UpdatedAt
	r.db.submissions[submission.ID] = record[domain.Submission]{seq: existing.seq, value: updated}
	return nil
}

func (r *submissionRepository) GetByID(_ context.Context, id string) (*domain.Submission, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rec, ok := r.db.submissions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	submission := cloneSubmission(rec.value)
	return &submission, nil
}

func (r *submissionRepository) List(_ context.Context, filter repository.SubmissionFilter) ([]domain.Submission, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	items := make([]record[domain.Submission], 0)
	for _, rec := range r.db.submissions {
		s := rec.value
		if filter.UserID != nil && s.UserID != *filter.UserID {
			continue
		}
		if filter.AgencyID != nil && s.AgencyID != *filter.AgencyID {
			continue
		}
		if filter.CategoryID != nil && s.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Type != nil && s.Type != *filter.Type {
			continue
		}
		items = append(items, record[domain.Submission]{seq: rec.seq, value: cloneSubmission(s)})
	}
	return sorted(items, newestFirst(func(s domain.Submission) int64 {
		return s.CreatedAt.UnixNano()
	})), nil
}

func (r *submissionRepository) ExistsByCategory(_ context.Context, categoryID string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, rec := range r.db.submissions {
		if rec.value.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

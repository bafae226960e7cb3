package memory

import (
	"context"

	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/repository"
)

type responseRepository struct {
	db *db
}

func (r *responseRepository) Create(_ context.Context, response *domain.AdminResponse) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.submissions[response.SubmissionID]; !ok {
		return repository.ErrReferenced
	}
	if _, ok := r.db.users[response.ResponderID]; !ok {
		return repository.ErrReferenced
	}

	id, seq, now := r.db.next()
	response.ID = id
	response.CreatedAt = now
	response.UpdatedAt = now
	r.db.responses[id] = record[domain.AdminResponse]{seq: seq, value: *response}
	return nil
}

func (r *responseRepository) Update(_ context.Context, response *domain.AdminResponse) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.responses[response.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := existing.value
	updated.Message = response.Message
	updated.UpdatedAt = r.db.tick()
	*response = updated
	r.db.responses[response.ID] = record[domain.AdminResponse]{seq: existing.seq, value: updated}
	return nil
}

func (r *responseRepository) GetByID(_ context.Context, id string) (*domain.AdminResponse, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rec, ok := r.db.responses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	response := rec.value
	return &response, nil
}

func (r *responseRepository) ListBySubmission(_ context.Context, submissionID string) ([]domain.AdminResponse, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	items := make([]record[domain.AdminResponse], 0)
	for _, rec := range r.db.responses {
		if rec.value.SubmissionID == submissionID {
			items = append(items, rec)
		}
	}
	return sorted(items, func(a, b domain.AdminResponse) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	}), nil
}

func (r *responseRepository) ListBySubmissionType(_ context.Context, submissionType domain.SubmissionType, agencyID *string) ([]domain.AdminResponse, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	items := make([]record[domain.AdminResponse], 0)
	for _, rec := range r.db.responses {
		submission, ok := r.db.submissions[rec.value.SubmissionID]
		if !ok || submission.value.Type != submissionType {
			continue
		}
		if agencyID != nil && submission.value.AgencyID != *agencyID {
			continue
		}
		items = append(items, rec)
	}
	return sorted(items, newestFirst(func(a domain.AdminResponse) int64 {
		return a.CreatedAt.UnixNano()
	})), nil
}

type historyRepository struct {
	db *db
}

func (r *historyRepository) Create(_ context.Context, history *domain.SubmissionHistory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.submissions[history.SubmissionID]; !ok {
		return repository.ErrReferenced
	}
	id, seq, now := r.db.next()
	history.ID = id
	history.CreatedAt = now
	r.db.history[id] = record[domain.SubmissionHistory]{seq: seq, value: *history}
	return nil
}

func (r *historyRepository) ListBySubmission(_ context.Context, submissionID string) ([]domain.SubmissionHistory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	items := make([]record[domain.SubmissionHistory], 0)
	for _, rec := range r.db.history {
		if rec.value.SubmissionID == submissionID {
			items = append(items, rec)
		}
	}
	return sorted(items, func(a, b domain.SubmissionHistory) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	}), nil
}

package memory

import (
	"context"

	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/repository"
)

type userRepository struct {
	db *db
}

func cloneUser(u domain.User) domain.User {
	u.AgencyID = cloneString(u.AgencyID)
	return u
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := normalizeEmail(user.Email)
	if _, exists := r.db.emails[key]; exists {
		return repository.ErrDuplicate
	}

	id, seq, now := r.db.next()
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	r.db.users[id] = record[domain.User]{seq: seq, value: cloneUser(*user)}
	r.db.emails[key] = id
	return nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := cloneUser(*user)
	updated.Email = existing.value.Email
	updated.CreatedAt = existing.value.CreatedAt
	updated.UpdatedAt = r.db.tick()
	user.UpdatedAt = updated.UpdatedAt
	r.db.users[user.ID] = record[domain.User]{seq: existing.seq, value: updated}
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rec, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := cloneUser(rec.value)
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.db.mu.RLock()
	id, ok := r.db.emails[normalizeEmail(email)]
	r.db.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

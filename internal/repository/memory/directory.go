package memory

import (
	"context"
	"strings"

	"github.com/citizen-voice/feedback-service/internal/domain"
	"github.com/citizen-voice/feedback-service/internal/repository"
)

type agencyRepository struct {
	db *db
}

func cloneAgency(a domain.Agency) domain.Agency {
	a.Email = cloneString(a.Email)
	a.Phone = cloneString(a.Phone)
	a.Address = cloneString(a.Address)
	a.Description = cloneString(a.Description)
	return a
}

func (r *agencyRepository) Create(_ context.Context, agency *domain.Agency) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	id, seq, now := r.db.next()
	agency.ID = id
	agency.CreatedAt = now
	agency.UpdatedAt = now
	r.db.agencies[id] = record[domain.Agency]{seq: seq, value: cloneAgency(*agency)}
	return nil
}

func (r *agencyRepository) Update(_ context.Context, agency *domain.Agency) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.agencies[agency.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := cloneAgency(*agency)
	updated.CreatedAt = existing.value.CreatedAt
	updated.UpdatedAt = r.db.tick()
	agency.UpdatedAt = updated.UpdatedAt
	r.db.agencies[agency.ID] = record[domain.Agency]{seq: existing.seq, value: updated}
	return nil
}

func (r *agencyRepository) GetByID(_ context.Context, id string) (*domain.Agency, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rec, ok := r.db.agencies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	agency := cloneAgency(rec.value)
	return &agency, nil
}

func (r *agencyRepository) List(_ context.Context) ([]domain.Agency, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	items := make([]record[domain.Agency], 0, len(r.db.agencies))
	for _, rec := range r.db.agencies {
		items = append(items, record[domain.Agency]{seq: rec.seq, value: cloneAgency(rec.value)})
	}
	return sorted(items, func(a, b domain.Agency) int {
		return strings.Compare(a.Name, b.Name)
	}), nil
}

type categoryRepository struct {
	db *db
}

func (r *categoryRepository) Create(_ context.Context, category *domain.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.agencies[category.AgencyID]; !ok {
		return repository.ErrReferenced
	}
	id, seq, now := r.db.next()
	category.ID = id
	category.CreatedAt = now
	category.UpdatedAt = now
	r.db.categories[id] = record[domain.Category]{seq: seq, value: *category}
	return nil
}

func (r *categoryRepository) Update(_ context.Context, category *domain.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.categories[category.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.db.agencies[category.AgencyID]; !ok {
		return repository.ErrReferenced
	}
	updated := *category
	updated.CreatedAt = existing.value.CreatedAt
	updated.UpdatedAt = r.db.tick()
	category.UpdatedAt = updated.UpdatedAt
	r.db.categories[category.ID] = record[domain.Category]{seq: existing.seq, value: updated}
	return nil
}

func (r *categoryRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.categories[id]; !ok {
		return repository.ErrNotFound
	}
	for _, rec := range r.db.submissions {
		if rec.value.CategoryID == id {
			return repository.ErrReferenced
		}
	}
	delete(r.db.categories, id)
	return nil
}

func (r *categoryRepository) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rec, ok := r.db.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	category := rec.value
	return &category, nil
}

func (r *categoryRepository) List(_ context.Context) ([]domain.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	items := make([]record[domain.Category], 0, len(r.db.categories))
	for _, rec := range r.db.categories {
		items = append(items, rec)
	}
	return sorted(items, func(a, b domain.Category) int {
		return strings.Compare(a.Name, b.Name)
	}), nil
}

package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Store groups the repositories the services depend on.
type Store struct {
	Users       UserRepository
	Agencies    AgencyRepository
	Categories  CategoryRepository
	Submissions SubmissionRepository
	Responses   ResponseRepository
	History     SubmissionHistoryRepository
}

// NewPostgresStore wires every repository to the same pool.
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Users:       NewUserRepository(pool),
		Agencies:    NewAgencyRepository(pool),
		Categories:  NewCategoryRepository(pool),
		Submissions: NewSubmissionRepository(pool),
		Responses:   NewResponseRepository(pool),
		History:     NewSubmissionHistoryRepository(pool),
	}
}

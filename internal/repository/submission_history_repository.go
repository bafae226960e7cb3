package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citizen-voice/feedback-service/internal/domain"
)

// SubmissionHistoryRepository stores audit entries.
type SubmissionHistoryRepository interface {
	Create(ctx context.Context, history *domain.SubmissionHistory) error
	ListBySubmission(ctx context.Context, submissionID string) ([]domain.SubmissionHistory, error)
}

type submissionHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionHistoryRepository builds repository.
func NewSubmissionHistoryRepository(pool *pgxpool.Pool) SubmissionHistoryRepository {
	return &submissionHistoryRepository{pool: pool}
}

func (r *submissionHistoryRepository) Create(ctx context.Context, history *domain.SubmissionHistory) error {
	const query = `
        INSERT INTO submission_history (submission_id, changed_by, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		history.SubmissionID,
		history.ChangedBy,
		history.ChangeType,
		history.OldValue,
		history.NewValue,
	).Scan(&history.ID, &history.CreatedAt)
	return translate(err)
}

func (r *submissionHistoryRepository) ListBySubmission(ctx context.Context, submissionID string) ([]domain.SubmissionHistory, error) {
	const query = `
        SELECT id, submission_id, changed_by, change_type, old_value, new_value, created_at
        FROM submission_history WHERE submission_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, submissionID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var result []domain.SubmissionHistory
	for rows.Next() {
		var history domain.SubmissionHistory
		if err := rows.Scan(
			&history.ID,
			&history.SubmissionID,
			&history.ChangedBy,
			&history.ChangeType,
			&history.OldValue,
			&history.NewValue,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, translate(rows.Err())
}

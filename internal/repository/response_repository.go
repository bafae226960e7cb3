package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citizen-voice/feedback-service/internal/domain"
)

// ResponseRepository handles admin response persistence.
type ResponseRepository interface {
	Create(ctx context.Context, response *domain.AdminResponse) error
	Update(ctx context.Context, response *domain.AdminResponse) error
	GetByID(ctx context.Context, id string) (*domain.AdminResponse, error)
	ListBySubmission(ctx context.Context, submissionID string) ([]domain.AdminResponse, error)
	// ListBySubmissionType returns responses whose submission has the given type,
	// newest first. A non-nil agencyID restricts to that agency's submissions.
	ListBySubmissionType(ctx context.Context, submissionType domain.SubmissionType, agencyID *string) ([]domain.AdminResponse, error)
}

type responseRepository struct {
	pool *pgxpool.Pool
}

// NewResponseRepository builds repository.
func NewResponseRepository(pool *pgxpool.Pool) ResponseRepository {
	return &responseRepository{pool: pool}
}

func (r *responseRepository) Create(ctx context.Context, response *domain.AdminResponse) error {
	const query = `
        INSERT INTO admin_responses (submission_id, responder_id, message)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		response.SubmissionID,
		response.ResponderID,
		response.Message,
	).Scan(&response.ID, &response.CreatedAt, &response.UpdatedAt)
	return translate(err)
}

func (r *responseRepository) Update(ctx context.Context, response *domain.AdminResponse) error {
	const query = `
        UPDATE admin_responses SET message=$1, updated_at=clock_timestamp()
        WHERE id=$2
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query, response.Message, response.ID).Scan(&response.UpdatedAt)
	return translate(err)
}

func (r *responseRepository) GetByID(ctx context.Context, id string) (*domain.AdminResponse, error) {
	const query = `
        SELECT id, submission_id, responder_id, message, created_at, updated_at
        FROM admin_responses WHERE id=$1`
	var response domain.AdminResponse
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&response.ID,
		&response.SubmissionID,
		&response.ResponderID,
		&response.Message,
		&response.CreatedAt,
		&response.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &response, nil
}

func (r *responseRepository) ListBySubmission(ctx context.Context, submissionID string) ([]domain.AdminResponse, error) {
	const query = `
        SELECT id, submission_id, responder_id, message, created_at, updated_at
        FROM admin_responses WHERE submission_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, submissionID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	return scanResponses(rows)
}

func (r *responseRepository) ListBySubmissionType(ctx context.Context, submissionType domain.SubmissionType, agencyID *string) ([]domain.AdminResponse, error) {
	const query = `
        SELECT r.id, r.submission_id, r.responder_id, r.message, r.created_at, r.updated_at
        FROM admin_responses r
        JOIN submissions s ON s.id = r.submission_id
        WHERE s.type=$1 AND ($2::uuid IS NULL OR s.agency_id=$2::uuid)
        ORDER BY r.created_at DESC, r.id ASC`
	rows, err := r.pool.Query(ctx, query, submissionType, agencyID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	return scanResponses(rows)
}

func scanResponses(rows pgx.Rows) ([]domain.AdminResponse, error) {
	var result []domain.AdminResponse
	for rows.Next() {
		var response domain.AdminResponse
		if err := rows.Scan(
			&response.ID,
			&response.SubmissionID,
			&response.ResponderID,
			&response.Message,
			&response.CreatedAt,
			&response.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, response)
	}
	return result, translate(rows.Err())
}

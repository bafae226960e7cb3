package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citizen-voice/feedback-service/internal/domain"
)

// SubmissionFilter narrows submission listings. Nil fields are ignored.
type SubmissionFilter struct {
	UserID     *string
	AgencyID   *string
	CategoryID *string
	Type       *domain.SubmissionType
}

// SubmissionRepository encapsulates submission persistence.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	Update(ctx context.Context, submission *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	List(ctx context.Context, filter SubmissionFilter) ([]domain.Submission, error)
	ExistsByCategory(ctx context.Context, categoryID string) (bool, error)
}

type submissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository instantiates repository.
func NewSubmissionRepository(pool *pgxpool.Pool) SubmissionRepository {
	return &submissionRepository{pool: pool}
}

const submissionColumns = `id, user_id, category_id, agency_id, title, description, type, status,
               location, attachment_url, created_at, updated_at`

func (r *submissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	const query = `
        INSERT INTO submissions (user_id, category_id, agency_id, title, description, type, status, location, attachment_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		submission.UserID,
		submission.CategoryID,
		submission.AgencyID,
		submission.Title,
		submission.Description,
		submission.Type,
		submission.Status,
		submission.Location,
		submission.AttachmentURL,
	).Scan(&submission.ID, &submission.CreatedAt, &submission.UpdatedAt)
	return translate(err)
}

// Update overwrites every mutable column. Concurrent writers race and the last one wins.
func (r *submissionRepository) Update(ctx context.Context, submission *domain.Submission) error {
	const query = `
        UPDATE submissions SET category_id=$1, agency_id=$2, title=$3, description=$4, type=$5,
            status=$6, location=$7, attachment_url=$8, updated_at=clock_timestamp()
        WHERE id=$9
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		submission.CategoryID,
		submission.AgencyID,
		submission.Title,
		submission.Description,
		submission.Type,
		submission.Status,
		submission.Location,
		submission.AttachmentURL,
		submission.ID,
	).Scan(&submission.UpdatedAt)
	return translate(err)
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	const query = `SELECT ` + submissionColumns + ` FROM submissions WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	submissions, err := scanSubmissions(rows)
	if err != nil {
		return nil, err
	}
	if len(submissions) == 0 {
		return nil, ErrNotFound
	}
	return &submissions[0], nil
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]domain.Submission, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.AgencyID != nil {
		args = append(args, *filter.AgencyID)
		clauses = append(clauses, fmt.Sprintf("agency_id=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("type=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM submissions WHERE %s ORDER BY created_at DESC, id ASC`,
		submissionColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

func (r *submissionRepository) ExistsByCategory(ctx context.Context, categoryID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM submissions WHERE category_id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, categoryID).Scan(&exists); err != nil {
		if err = translate(err); errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func scanSubmissions(rows pgx.Rows) ([]domain.Submission, error) {
	var result []domain.Submission
	for rows.Next() {
		var submission domain.Submission
		if err := rows.Scan(
			&submission.ID,
			&submission.UserID,
			&submission.CategoryID,
			&submission.AgencyID,
			&submission.Title,
			&submission.Description,
			&submission.Type,
			&submission.Status,
			&submission.Location,
			&submission.AttachmentURL,
			&submission.CreatedAt,
			&submission.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, submission)
	}
	return result, translate(rows.Err())
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citizen-voice/feedback-service/internal/domain"
)

// CategoryRepository manages category persistence.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository builds the repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (name, agency_id)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, category.Name, category.AgencyID).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	return translate(err)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	const query = `
        UPDATE categories SET name=$1, agency_id=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query, category.Name, category.AgencyID, category.ID).
		Scan(&category.UpdatedAt)
	return translate(err)
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM categories WHERE id=$1`
	return execAffected(r.pool.Exec(ctx, query, id))
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	const query = `
        SELECT id, name, agency_id, created_at, updated_at
        FROM categories WHERE id=$1`
	var category domain.Category
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.AgencyID,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	const query = `
        SELECT id, name, agency_id, created_at, updated_at
        FROM categories ORDER BY name ASC, id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.AgencyID,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, translate(rows.Err())
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citizen-voice/feedback-service/internal/domain"
)

// AgencyRepository manages agency persistence.
type AgencyRepository interface {
	Create(ctx context.Context, agency *domain.Agency) error
	Update(ctx context.Context, agency *domain.Agency) error
	GetByID(ctx context.Context, id string) (*domain.Agency, error)
	List(ctx context.Context) ([]domain.Agency, error)
}

type agencyRepository struct {
	pool *pgxpool.Pool
}

// NewAgencyRepository builds the repository.
func NewAgencyRepository(pool *pgxpool.Pool) AgencyRepository {
	return &agencyRepository{pool: pool}
}

func (r *agencyRepository) Create(ctx context.Context, agency *domain.Agency) error {
	const query = `
        INSERT INTO agencies (name, email, phone, address, description)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		agency.Name,
		agency.Email,
		agency.Phone,
		agency.Address,
		agency.Description,
	).Scan(&agency.ID, &agency.CreatedAt, &agency.UpdatedAt)
	return translate(err)
}

func (r *agencyRepository) Update(ctx context.Context, agency *domain.Agency) error {
	const query = `
        UPDATE agencies SET name=$1, email=$2, phone=$3, address=$4, description=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		agency.Name,
		agency.Email,
		agency.Phone,
		agency.Address,
		agency.Description,
		agency.ID,
	).Scan(&agency.UpdatedAt)
	return translate(err)
}

func (r *agencyRepository) GetByID(ctx context.Context, id string) (*domain.Agency, error) {
	const query = `
        SELECT id, name, email, phone, address, description, created_at, updated_at
        FROM agencies WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	agencies, err := scanAgencies(rows)
	if err != nil {
		return nil, err
	}
	if len(agencies) == 0 {
		return nil, ErrNotFound
	}
	return &agencies[0], nil
}

func (r *agencyRepository) List(ctx context.Context) ([]domain.Agency, error) {
	const query = `
        SELECT id, name, email, phone, address, description, created_at, updated_at
        FROM agencies ORDER BY name ASC, id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	return scanAgencies(rows)
}

func scanAgencies(rows pgx.Rows) ([]domain.Agency, error) {
	var result []domain.Agency
	for rows.Next() {
		var agency domain.Agency
		if err := rows.Scan(
			&agency.ID,
			&agency.Name,
			&agency.Email,
			&agency.Phone,
			&agency.Address,
			&agency.Description,
			&agency.CreatedAt,
			&agency.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, agency)
	}
	return result, translate(rows.Err())
}

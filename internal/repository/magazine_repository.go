package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/magazine-service/internal/domain"
)

// MagazineRepository encapsulates magazine persistence.
type MagazineRepository interface {
	Create(ctx context.Context, magazine *domain.Magazine) error
	Update(ctx context.Context, magazine *domain.Magazine) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Magazine, error)
	List(ctx context.Context, limit, offset int) ([]domain.Magazine, error)
	Count(ctx context.Context) (int, error)
}

type magazineRepository struct {
	pool *pgxpool.Pool
}

// NewMagazineRepository instantiates repository.
func NewMagazineRepository(pool *pgxpool.Pool) MagazineRepository {
	return &magazineRepository{pool: pool}
}

func (r *magazineRepository) Create(ctx context.Context, magazine *domain.Magazine) error {
	const query = `
        INSERT INTO magazines (title, description, publisher_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		magazine.Title,
		magazine.Description,
		magazine.PublisherID,
	).Scan(&magazine.ID, &magazine.CreatedAt, &magazine.UpdatedAt)
}

func (r *magazineRepository) Update(ctx context.Context, magazine *domain.Magazine) error {
	const query = `
        UPDATE magazines SET title=$1, description=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, magazine.Title, magazine.Description, magazine.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *magazineRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM magazines WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *magazineRepository) GetByID(ctx context.Context, id string) (*domain.Magazine, error) {
	const query = `
        SELECT id, title, description, publisher_id, created_at, updated_at
        FROM magazines WHERE id=$1`

	var magazine domain.Magazine
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&magazine.ID,
		&magazine.Title,
		&magazine.Description,
		&magazine.PublisherID,
		&magazine.CreatedAt,
		&magazine.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &magazine, nil
}

func (r *magazineRepository) List(ctx context.Context, limit, offset int) ([]domain.Magazine, error) {
	const query = `
        SELECT id, title, description, publisher_id, created_at, updated_at
        FROM magazines ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	magazines := make([]domain.Magazine, 0)
	for rows.Next() {
		var magazine domain.Magazine
		if err := rows.Scan(
			&magazine.ID,
			&magazine.Title,
			&magazine.Description,
			&magazine.PublisherID,
			&magazine.CreatedAt,
			&magazine.UpdatedAt,
		); err != nil {
			return nil, err
		}
		magazines = append(magazines, magazine)
	}
	return magazines, rows.Err()
}

func (r *magazineRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM magazines`).Scan(&count)
	return count, err
}

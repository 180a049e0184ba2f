package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/magazine-service/internal/domain"
)

// CommentRepository encapsulates comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Approve(ctx context.Context, id string) (*domain.Comment, error)
	ListApproved(ctx context.Context, limit, offset int) ([]domain.Comment, error)
	ListPending(ctx context.Context) ([]domain.Comment, error)
	Count(ctx context.Context) (int, error)
	CountApproved(ctx context.Context) (int, error)
	CountPending(ctx context.Context) (int, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentColumns = `id, magazine_id, author_id, content, approved, created_at`

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (magazine_id, author_id, content)
        VALUES ($1, $2, $3)
        RETURNING id, approved, created_at`

	return r.pool.QueryRow(ctx, query,
		comment.MagazineID,
		comment.AuthorID,
		comment.Content,
	).Scan(&comment.ID, &comment.Approved, &comment.CreatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	const query = `SELECT ` + commentColumns + ` FROM comments WHERE id=$1`
	return r.scanRow(r.pool.QueryRow(ctx, query, id))
}

func (r *commentRepository) Approve(ctx context.Context, id string) (*domain.Comment, error) {
	const query = `
        UPDATE comments SET approved=TRUE
        WHERE id=$1
        RETURNING ` + commentColumns

	return r.scanRow(r.pool.QueryRow(ctx, query, id))
}

func (r *commentRepository) ListApproved(ctx context.Context, limit, offset int) ([]domain.Comment, error) {
	const query = `
        SELECT ` + commentColumns + ` FROM comments
        WHERE approved=TRUE ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRows(rows)
}

func (r *commentRepository) ListPending(ctx context.Context) ([]domain.Comment, error) {
	const query = `SELECT ` + commentColumns + ` FROM comments WHERE approved=FALSE ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRows(rows)
}

func (r *commentRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM comments`)
}

func (r *commentRepository) CountApproved(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM comments WHERE approved=TRUE`)
}

func (r *commentRepository) CountPending(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM comments WHERE approved=FALSE`)
}

func (r *commentRepository) count(ctx context.Context, query string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, query).Scan(&count)
	return count, err
}

func (r *commentRepository) scanRow(row pgx.Row) (*domain.Comment, error) {
	var comment domain.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.MagazineID,
		&comment.AuthorID,
		&comment.Content,
		&comment.Approved,
		&comment.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) scanRows(rows pgx.Rows) ([]domain.Comment, error) {
	comments := make([]domain.Comment, 0)
	for rows.Next() {
		comment, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	return comments, rows.Err()
}

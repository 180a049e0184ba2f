package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/magazine-service/internal/domain"
)

// RefreshTokenRepository stores single-use refresh tokens.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	// Consume atomically deletes the token if it exists and has not expired,
	// returning the deleted row. A concurrent second consume of the same
	// token observes zero rows and gets pgx.ErrNoRows, so a refresh token
	// can never mint two pairs.
	Consume(ctx context.Context, token string) (*domain.RefreshToken, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type refreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepository instantiates repository.
func NewRefreshTokenRepository(pool *pgxpool.Pool) RefreshTokenRepository {
	return &refreshTokenRepository{pool: pool}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	const query = `
        INSERT INTO refresh_tokens (token, user_id, expires_at)
        VALUES ($1, $2, $3)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		token.Token,
		token.UserID,
		token.ExpiresAt,
	).Scan(&token.CreatedAt)
}

func (r *refreshTokenRepository) Consume(ctx context.Context, token string) (*domain.RefreshToken, error) {
	const query = `
        DELETE FROM refresh_tokens
        WHERE token=$1 AND expires_at > NOW()
        RETURNING token, user_id, expires_at, created_at`

	var rt domain.RefreshToken
	if err := r.pool.QueryRow(ctx, query, token).Scan(
		&rt.Token,
		&rt.UserID,
		&rt.ExpiresAt,
		&rt.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

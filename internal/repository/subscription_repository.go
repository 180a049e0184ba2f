package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/magazine-service/internal/domain"
)

// SubscriptionRepository encapsulates subscription persistence.
type SubscriptionRepository interface {
	// Upsert inserts a PENDING subscription for (user, magazine) or returns
	// the existing row unchanged when one already exists.
	Upsert(ctx context.Context, userID, magazineID string) (*domain.Subscription, error)
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)
	Activate(ctx context.Context, id string, startDate time.Time) (*domain.Subscription, error)
	Cancel(ctx context.Context, id string, endDate time.Time) (*domain.Subscription, error)
	// ExpireDue transitions every ACTIVE subscription whose end date has
	// passed to EXPIRED and returns the affected rows. Selection and update
	// are a single statement so the predicate evaluates at execution time.
	ExpireDue(ctx context.Context, now time.Time) ([]domain.Subscription, error)
	List(ctx context.Context, limit, offset int) ([]domain.Subscription, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status domain.SubscriptionStatus) (int, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository instantiates repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

const subscriptionColumns = `id, user_id, magazine_id, status, start_date, end_date, created_at, updated_at`

func (r *subscriptionRepository) Upsert(ctx context.Context, userID, magazineID string) (*domain.Subscription, error) {
	// DO NOTHING returns no row on conflict, so fall back to the existing one.
	const insert = `
        INSERT INTO subscriptions (user_id, magazine_id, status)
        VALUES ($1, $2, 'PENDING')
        ON CONFLICT ON CONSTRAINT subscriptions_user_magazine_key DO NOTHING
        RETURNING ` + subscriptionColumns

	sub, err := r.scanRow(r.pool.QueryRow(ctx, insert, userID, magazineID))
	if err == nil {
		return sub, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	const fetch = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id=$1 AND magazine_id=$2`
	return r.scanRow(r.pool.QueryRow(ctx, fetch, userID, magazineID))
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	const query = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id=$1`
	return r.scanRow(r.pool.QueryRow(ctx, query, id))
}

func (r *subscriptionRepository) Activate(ctx context.Context, id string, startDate time.Time) (*domain.Subscription, error) {
	const query = `
        UPDATE subscriptions SET status='ACTIVE', start_date=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + subscriptionColumns

	return r.scanRow(r.pool.QueryRow(ctx, query, startDate, id))
}

func (r *subscriptionRepository) Cancel(ctx context.Context, id string, endDate time.Time) (*domain.Subscription, error) {
	const query = `
        UPDATE subscriptions SET status='CANCELLED', end_date=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + subscriptionColumns

	return r.scanRow(r.pool.QueryRow(ctx, query, endDate, id))
}

func (r *subscriptionRepository) ExpireDue(ctx context.Context, now time.Time) ([]domain.Subscription, error) {
	const query = `
        UPDATE subscriptions SET status='EXPIRED', updated_at=NOW()
        WHERE status='ACTIVE' AND end_date <= $1
        RETURNING ` + subscriptionColumns

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRows(rows)
}

func (r *subscriptionRepository) List(ctx context.Context, limit, offset int) ([]domain.Subscription, error) {
	const query = `SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRows(rows)
}

func (r *subscriptionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions`).Scan(&count)
	return count, err
}

func (r *subscriptionRepository) CountByStatus(ctx context.Context, status domain.SubscriptionStatus) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE status=$1`, status).Scan(&count)
	return count, err
}

func (r *subscriptionRepository) scanRow(row pgx.Row) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.MagazineID,
		&sub.Status,
		&sub.StartDate,
		&sub.EndDate,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) scanRows(rows pgx.Rows) ([]domain.Subscription, error) {
	subs := make([]domain.Subscription, 0)
	for rows.Next() {
		sub, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

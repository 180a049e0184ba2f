package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/magazine-service/internal/domain"
)

// ActivityRepository persists audit entries.
type ActivityRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	ListRecent(ctx context.Context, limit int) ([]domain.ActivityLog, error)
}

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository instantiates repository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	var meta []byte
	if entry.Meta != nil {
		encoded, err := json.Marshal(entry.Meta)
		if err != nil {
			return err
		}
		meta = encoded
	}

	const query = `
        INSERT INTO activity_logs (actor_id, action, meta)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query, entry.ActorID, entry.Action, meta).
		Scan(&entry.ID, &entry.CreatedAt)
}

func (r *activityRepository) ListRecent(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	const query = `
        SELECT id, actor_id, action, meta, created_at
        FROM activity_logs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.ActivityLog, 0)
	for rows.Next() {
		var entry domain.ActivityLog
		var meta []byte
		if err := rows.Scan(&entry.ID, &entry.ActorID, &entry.Action, &meta, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &entry.Meta); err != nil {
				return nil, err
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// BlacklistRepository is the deny-list of revoked access tokens. Entries live
// at least as long as the token's natural expiry so a revoked token can never
// authenticate again within its validity window.
type BlacklistRepository interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

const blacklistKeyPrefix = "blacklist:"

type blacklistRepository struct {
	client *redis.Client
}

// NewBlacklistRepository returns a Redis-backed implementation.
func NewBlacklistRepository(client *redis.Client) BlacklistRepository {
	return &blacklistRepository{client: client}
}

// Add marks the raw token value revoked. Re-adding an already blacklisted
// token simply refreshes the entry, keeping logout idempotent.
func (r *blacklistRepository) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return r.client.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err()
}

func (r *blacklistRepository) Contains(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/magazine-service/internal/repository"
)

// TokenCleanupJob purges refresh tokens past their expiry. Rotation only
// deletes the row it consumes, so abandoned sessions leave rows behind
// until this job collects them.
type TokenCleanupJob struct {
	refreshTokens repository.RefreshTokenRepository
	logger        *zap.Logger
}

// NewTokenCleanupJob constructs the job.
func NewTokenCleanupJob(refreshTokens repository.RefreshTokenRepository, logger *zap.Logger) *TokenCleanupJob {
	return &TokenCleanupJob{refreshTokens: refreshTokens, logger: logger}
}

func (j *TokenCleanupJob) Name() string { return "refresh-token-cleanup" }

// Run deletes every expired refresh token row.
func (j *TokenCleanupJob) Run(ctx context.Context) error {
	deleted, err := j.refreshTokens.DeleteExpired(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	if deleted == 0 {
		j.logger.Info("token cleanup found nothing to delete")
		return nil
	}
	j.logger.Info("token cleanup completed", zap.Int64("deleted", deleted))
	return nil
}

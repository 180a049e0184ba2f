package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/magazine-service/internal/mail"
	"github.com/spec-kit/magazine-service/internal/repository"
	"github.com/spec-kit/magazine-service/internal/service"
)

// ExpirySweepJob moves overdue ACTIVE subscriptions to EXPIRED, records
// one audit entry for the whole batch, and emails each affected user.
type ExpirySweepJob struct {
	subscriptions repository.SubscriptionRepository
	magazines     repository.MagazineRepository
	users         repository.UserRepository
	activity      *service.ActivityService
	mailer        mail.Mailer
	logger        *zap.Logger
}

// NewExpirySweepJob constructs the job.
func NewExpirySweepJob(
	subscriptions repository.SubscriptionRepository,
	magazines repository.MagazineRepository,
	users repository.UserRepository,
	activity *service.ActivityService,
	mailer mail.Mailer,
	logger *zap.Logger,
) *ExpirySweepJob {
	return &ExpirySweepJob{
		subscriptions: subscriptions,
		magazines:     magazines,
		users:         users,
		activity:      activity,
		mailer:        mailer,
		logger:        logger,
	}
}

func (j *ExpirySweepJob) Name() string { return "subscription-expiry-sweep" }

// Run performs one sweep. The transition itself is a single statement,
// so a subscription activated mid-sweep is never expired by mistake.
func (j *ExpirySweepJob) Run(ctx context.Context) error {
	expired, err := j.subscriptions.ExpireDue(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("expire due subscriptions: %w", err)
	}
	if len(expired) == 0 {
		j.logger.Info("expiry sweep found nothing to expire")
		return nil
	}

	ids := make([]string, 0, len(expired))
	for _, sub := range expired {
		ids = append(ids, sub.ID)
	}
	j.activity.Log(ctx, "subscriptions.expired.batch", nil, map[string]any{
		"count":           len(expired),
		"subscriptionIds": ids,
	})

	// Email failures are logged per recipient and never abort the sweep.
	for _, sub := range expired {
		j.notify(ctx, sub.UserID, sub.MagazineID)
	}

	j.logger.Info("expiry sweep completed", zap.Int("expired", len(expired)))
	return nil
}

func (j *ExpirySweepJob) notify(ctx context.Context, userID, magazineID string) {
	if j.mailer == nil {
		return
	}
	user, err := j.users.GetByID(ctx, userID)
	if err != nil {
		j.logger.Warn("skipping expiry email", zap.String("user_id", userID), zap.Error(err))
		return
	}
	title := "your magazine"
	if magazine, err := j.magazines.GetByID(ctx, magazineID); err == nil {
		title = fmt.Sprintf("%q", magazine.Title)
	}
	body := fmt.Sprintf("Hello %s, your subscription to %s has expired. Subscribe again to keep reading.", user.Name, title)
	if err := j.mailer.Send(ctx, user.Email, "Subscription Expired", mail.RenderTemplate("Subscription Expired", body)); err != nil {
		j.logger.Warn("failed to send expiry email", zap.String("to", user.Email), zap.Error(err))
	}
}

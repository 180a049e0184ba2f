package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/magazine-service/internal/config"
	"github.com/spec-kit/magazine-service/internal/domain"
	"github.com/spec-kit/magazine-service/internal/events"
	"github.com/spec-kit/magazine-service/internal/mail"
	"github.com/spec-kit/magazine-service/internal/repository"
)

// NotificationService emails users about subscription lifecycle events.
// Delivery is best-effort: failures are logged, never retried, and never
// surface to the request that triggered them.
type NotificationService struct {
	subscriptions repository.SubscriptionRepository
	magazines     repository.MagazineRepository
	users         repository.UserRepository
	mailer        mail.Mailer
	logger        *zap.Logger
	baseURL       string
}

// NewNotificationService constructs the service.
func NewNotificationService(
	subscriptions repository.SubscriptionRepository,
	magazines repository.MagazineRepository,
	users repository.UserRepository,
	mailer mail.Mailer,
	logger *zap.Logger,
	appCfg config.AppConfig,
) *NotificationService {
	return &NotificationService{
		subscriptions: subscriptions,
		magazines:     magazines,
		users:         users,
		mailer:        mailer,
		logger:        logger,
		baseURL:       appCfg.BaseURL,
	}
}

// RegisterHandlers subscribes to the events that warrant an email.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventSubscriptionCreated, n.handleSubscriptionCreated)
	dispatcher.Subscribe(events.EventSubscriptionActivated, n.handleSubscriptionActivated)
}

func (n *NotificationService) handleSubscriptionCreated(ctx context.Context, event events.Event) error {
	user, magazine, err := n.resolve(ctx, event)
	if err != nil {
		n.logger.Warn("skipping subscription-created email", zap.Error(err))
		return nil
	}
	body := fmt.Sprintf("Hello %s, your subscription to %q is pending activation. We will let you know once a publisher approves it.",
		user.Name, magazine.Title)
	n.send(ctx, user.Email, "Subscription Created", mail.RenderTemplate("Subscription Created", body))
	return nil
}

func (n *NotificationService) handleSubscriptionActivated(ctx context.Context, event events.Event) error {
	user, magazine, err := n.resolve(ctx, event)
	if err != nil {
		n.logger.Warn("skipping subscription-active email", zap.Error(err))
		return nil
	}
	body := fmt.Sprintf("Hello %s, your subscription to %q is now active. Read it here: %s/v1/magazines/%s",
		user.Name, magazine.Title, n.baseURL, magazine.ID)
	n.send(ctx, user.Email, "Subscription Active", mail.RenderTemplate("Subscription Active", body))
	return nil
}

func (n *NotificationService) resolve(ctx context.Context, event events.Event) (*domain.User, *domain.Magazine, error) {
	id, _ := event.Meta["subscriptionId"].(string)
	if id == "" {
		return nil, nil, fmt.Errorf("event %s missing subscriptionId", event.Type)
	}
	sub, err := n.subscriptions.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load subscription %s: %w", id, err)
	}
	user, err := n.users.GetByID(ctx, sub.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("load user %s: %w", sub.UserID, err)
	}
	magazine, err := n.magazines.GetByID(ctx, sub.MagazineID)
	if err != nil {
		return nil, nil, fmt.Errorf("load magazine %s: %w", sub.MagazineID, err)
	}
	return user, magazine, nil
}

func (n *NotificationService) send(ctx context.Context, to, subject, html string) {
	if n.mailer == nil {
		return
	}
	if err := n.mailer.Send(ctx, to, subject, html); err != nil {
		n.logger.Warn("failed to send email", zap.String("to", to), zap.Error(err))
	}
}

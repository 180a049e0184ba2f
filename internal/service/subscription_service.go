package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/magazine-service/internal/domain"
	"github.com/spec-kit/magazine-service/internal/events"
	"github.com/spec-kit/magazine-service/internal/repository"
	apperrors "github.com/spec-kit/magazine-service/pkg/util"
)

// SubscriptionService coordinates the subscription lifecycle.
type SubscriptionService struct {
	subscriptions repository.SubscriptionRepository
	magazines     repository.MagazineRepository
	dispatcher    events.Dispatcher
}

// NewSubscriptionService constructs the service.
func NewSubscriptionService(subscriptions repository.SubscriptionRepository, magazines repository.MagazineRepository, dispatcher events.Dispatcher) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, magazines: magazines, dispatcher: dispatcher}
}

// List returns one page of subscriptions with the total count.
func (s *SubscriptionService) List(ctx context.Context, limit, offset int) ([]domain.Subscription, int, error) {
	items, err := s.subscriptions.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.subscriptions.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Subscribe creates a PENDING subscription for (user, magazine). Subscribing
// again to the same magazine returns the existing row untouched.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, magazineID string) (*domain.Subscription, error) {
	if _, err := s.magazines.GetByID(ctx, magazineID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("magazine", map[string]any{"id": magazineID})
		}
		return nil, err
	}

	sub, err := s.subscriptions.Upsert(ctx, userID, magazineID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventSubscriptionCreated, &userID, map[string]any{"subscriptionId": sub.ID})
	return sub, nil
}

// Activate transitions a subscription to ACTIVE and stamps the start date.
func (s *SubscriptionService) Activate(ctx context.Context, caller Caller, id string) (*domain.Subscription, error) {
	sub, err := s.subscriptions.Activate(ctx, id, time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("subscription", map[string]any{"id": id})
		}
		return nil, err
	}

	s.publish(ctx, events.EventSubscriptionActivated, &caller.ID, map[string]any{"subscriptionId": id})
	return sub, nil
}

// Cancel transitions a subscription to CANCELLED and stamps the end date.
// Subscribers may only cancel their own subscription.
func (s *SubscriptionService) Cancel(ctx context.Context, caller Caller, id string) (*domain.Subscription, error) {
	if !caller.IsAdmin() {
		existing, err := s.subscriptions.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("subscription", map[string]any{"id": id})
			}
			return nil, err
		}
		if existing.UserID != caller.ID {
			return nil, apperrors.NewForbidden("not the owner of this subscription")
		}
	}

	sub, err := s.subscriptions.Cancel(ctx, id, time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("subscription", map[string]any{"id": id})
		}
		return nil, err
	}

	s.publish(ctx, events.EventSubscriptionCancelled, &caller.ID, map[string]any{"subscriptionId": id})
	return sub, nil
}

func (s *SubscriptionService) publish(ctx context.Context, eventType events.EventType, actorID *string, meta map[string]any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Meta:      meta,
	})
}

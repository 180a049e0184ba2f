package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/magazine-service/internal/domain"
	"github.com/spec-kit/magazine-service/internal/events"
	"github.com/spec-kit/magazine-service/internal/repository"
)

// ActivityService writes one audit entry per domain event. Failures are
// logged and swallowed so audit problems never surface on the request path.
type ActivityService struct {
	activities repository.ActivityRepository
	logger     *zap.Logger
}

// NewActivityService constructs the service.
func NewActivityService(activities repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{activities: activities, logger: logger}
}

// RegisterHandlers subscribes the audit writer to every event type.
func (s *ActivityService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes() {
		dispatcher.Subscribe(eventType, s.handleEvent)
	}
}

func (s *ActivityService) handleEvent(ctx context.Context, event events.Event) error {
	entry := &domain.ActivityLog{
		ActorID: event.ActorID,
		Action:  string(event.Type),
		Meta:    event.Meta,
	}
	if err := s.activities.Create(ctx, entry); err != nil {
		s.logger.Error("failed to write activity", zap.String("action", entry.Action), zap.Error(err))
	}
	return nil
}

// Recent returns the newest audit entries, capped at limit.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.activities.ListRecent(ctx, limit)
}

// Log records an entry directly, for callers outside the event flow.
func (s *ActivityService) Log(ctx context.Context, action string, actorID *string, meta map[string]any) {
	entry := &domain.ActivityLog{ActorID: actorID, Action: action, Meta: meta}
	if err := s.activities.Create(ctx, entry); err != nil {
		s.logger.Error("failed to write activity", zap.String("action", action), zap.Error(err))
	}
}

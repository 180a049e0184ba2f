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

// UserService covers administrative account operations.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, dispatcher: dispatcher}
}

// List returns one page of accounts with the total count.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	items, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateRole assigns a new role to the target account.
func (s *UserService) UpdateRole(ctx context.Context, actorID, targetID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}

	user, err := s.users.UpdateRole(ctx, targetID, role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": targetID})
		}
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserRoleUpdated,
			ActorID:   &actorID,
			Timestamp: time.Now(),
			Meta:      map[string]any{"targetUserId": targetID, "role": string(role)},
		})
	}
	return user, nil
}

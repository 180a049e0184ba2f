package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/magazine-service/internal/domain"
	"github.com/spec-kit/magazine-service/internal/events"
	"github.com/spec-kit/magazine-service/internal/repository"
	apperrors "github.com/spec-kit/magazine-service/pkg/util"
)

// MagazineService coordinates magazine workflows.
type MagazineService struct {
	magazines  repository.MagazineRepository
	dispatcher events.Dispatcher
}

// NewMagazineService constructs the service.
func NewMagazineService(magazines repository.MagazineRepository, dispatcher events.Dispatcher) *MagazineService {
	return &MagazineService{magazines: magazines, dispatcher: dispatcher}
}

// MagazineInput describes create/update payloads.
type MagazineInput struct {
	Title       string
	Description string
}

// List returns one page of magazines, newest first, with the total count.
func (s *MagazineService) List(ctx context.Context, limit, offset int) ([]domain.Magazine, int, error) {
	items, err := s.magazines.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.magazines.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create registers a magazine owned by the calling publisher.
func (s *MagazineService) Create(ctx context.Context, publisherID string, input MagazineInput) (*domain.Magazine, error) {
	magazine := &domain.Magazine{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		PublisherID: publisherID,
	}
	if err := s.magazines.Create(ctx, magazine); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventMagazineCreated, publisherID, map[string]any{"magazineId": magazine.ID})
	return magazine, nil
}

// Update modifies a magazine. Non-admin callers must own it.
func (s *MagazineService) Update(ctx context.Context, caller Caller, id string, input MagazineInput) (*domain.Magazine, error) {
	magazine, err := s.getOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	magazine.Title = strings.TrimSpace(input.Title)
	magazine.Description = strings.TrimSpace(input.Description)
	if err := s.magazines.Update(ctx, magazine); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventMagazineUpdated, caller.ID, map[string]any{"magazineId": id})
	return magazine, nil
}

// Delete removes a magazine. Non-admin callers must own it.
func (s *MagazineService) Delete(ctx context.Context, caller Caller, id string) error {
	if _, err := s.getOwned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.magazines.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.EventMagazineDeleted, caller.ID, map[string]any{"magazineId": id})
	return nil
}

// getOwned loads the magazine and enforces the ownership rule.
func (s *MagazineService) getOwned(ctx context.Context, caller Caller, id string) (*domain.Magazine, error) {
	magazine, err := s.magazines.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("magazine", map[string]any{"id": id})
		}
		return nil, err
	}
	if !caller.IsAdmin() && magazine.PublisherID != caller.ID {
		return nil, apperrors.NewForbidden("not the owner of this magazine")
	}
	return magazine, nil
}

func (s *MagazineService) publish(ctx context.Context, eventType events.EventType, actorID string, meta map[string]any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   &actorID,
		Timestamp: time.Now(),
		Meta:      meta,
	})
}

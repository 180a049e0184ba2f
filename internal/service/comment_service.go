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

// CommentService coordinates comment creation and moderation.
type CommentService struct {
	comments   repository.CommentRepository
	magazines  repository.MagazineRepository
	dispatcher events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.CommentRepository, magazines repository.MagazineRepository, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{comments: comments, magazines: magazines, dispatcher: dispatcher}
}

// ListApproved returns one page of approved comments with the total count.
func (s *CommentService) ListApproved(ctx context.Context, limit, offset int) ([]domain.Comment, int, error) {
	items, err := s.comments.ListApproved(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.comments.CountApproved(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create posts a comment on a magazine. Comments start unapproved.
func (s *CommentService) Create(ctx context.Context, authorID, magazineID, content string) (*domain.Comment, error) {
	if _, err := s.magazines.GetByID(ctx, magazineID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("magazine", map[string]any{"id": magazineID})
		}
		return nil, err
	}

	comment := &domain.Comment{
		MagazineID: magazineID,
		AuthorID:   authorID,
		Content:    strings.TrimSpace(content),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventCommentCreated, authorID, map[string]any{"commentId": comment.ID})
	return comment, nil
}

// ListPending returns the moderation queue.
func (s *CommentService) ListPending(ctx context.Context) ([]domain.Comment, error) {
	return s.comments.ListPending(ctx)
}

// Approve marks a comment visible.
func (s *CommentService) Approve(ctx context.Context, moderatorID, id string) (*domain.Comment, error) {
	comment, err := s.comments.Approve(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"id": id})
		}
		return nil, err
	}

	s.publish(ctx, events.EventCommentApproved, moderatorID, map[string]any{"commentId": id})
	return comment, nil
}

func (s *CommentService) publish(ctx context.Context, eventType events.EventType, actorID string, meta map[string]any) {
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

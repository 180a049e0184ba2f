package dto

import (
	"time"

	"github.com/spec-kit/magazine-service/internal/domain"
)

// CommentCreateRequest payload.
type CommentCreateRequest struct {
	MagazineID string `json:"magazineId"`
	Content    string `json:"content"`
}

// CommentResponse is the public view of a comment.
type CommentResponse struct {
	ID         string    `json:"id"`
	MagazineID string    `json:"magazineId"`
	AuthorID   string    `json:"authorId"`
	Content    string    `json:"content"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewCommentResponse maps a comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:         comment.ID,
		MagazineID: comment.MagazineID,
		AuthorID:   comment.AuthorID,
		Content:    comment.Content,
		Approved:   comment.Approved,
		CreatedAt:  comment.CreatedAt,
	}
}

// NewCommentResponses maps a slice of comments.
func NewCommentResponses(comments []domain.Comment) []CommentResponse {
	items := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, NewCommentResponse(&comments[i]))
	}
	return items
}

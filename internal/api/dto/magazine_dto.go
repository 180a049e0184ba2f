package dto

import (
	"time"

	"github.com/spec-kit/magazine-service/internal/domain"
)

// MagazineUpsertRequest payload for create and update.
type MagazineUpsertRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// MagazineResponse is the public view of a magazine.
type MagazineResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PublisherID string    `json:"publisherId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewMagazineResponse maps a magazine.
func NewMagazineResponse(magazine *domain.Magazine) MagazineResponse {
	return MagazineResponse{
		ID:          magazine.ID,
		Title:       magazine.Title,
		Description: magazine.Description,
		PublisherID: magazine.PublisherID,
		CreatedAt:   magazine.CreatedAt,
		UpdatedAt:   magazine.UpdatedAt,
	}
}

// NewMagazineResponses maps a slice of magazines.
func NewMagazineResponses(magazines []domain.Magazine) []MagazineResponse {
	items := make([]MagazineResponse, 0, len(magazines))
	for i := range magazines {
		items = append(items, NewMagazineResponse(&magazines[i]))
	}
	return items
}

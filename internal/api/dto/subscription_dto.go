package dto

import (
	"time"

	"github.com/spec-kit/magazine-service/internal/domain"
)

// SubscribeRequest payload.
type SubscribeRequest struct {
	MagazineID string `json:"magazineId"`
}

// SubscriptionResponse is the public view of a subscription.
type SubscriptionResponse struct {
	ID         string                    `json:"id"`
	UserID     string                    `json:"userId"`
	MagazineID string                    `json:"magazineId"`
	Status     domain.SubscriptionStatus `json:"status"`
	StartDate  *time.Time                `json:"startDate"`
	EndDate    *time.Time                `json:"endDate"`
	CreatedAt  time.Time                 `json:"createdAt"`
	UpdatedAt  time.Time                 `json:"updatedAt"`
}

// NewSubscriptionResponse maps a subscription.
func NewSubscriptionResponse(sub *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:         sub.ID,
		UserID:     sub.UserID,
		MagazineID: sub.MagazineID,
		Status:     sub.Status,
		StartDate:  sub.StartDate,
		EndDate:    sub.EndDate,
		CreatedAt:  sub.CreatedAt,
		UpdatedAt:  sub.UpdatedAt,
	}
}

// NewSubscriptionResponses maps a slice of subscriptions.
func NewSubscriptionResponses(subs []domain.Subscription) []SubscriptionResponse {
	items := make([]SubscriptionResponse, 0, len(subs))
	for i := range subs {
		items = append(items, NewSubscriptionResponse(&subs[i]))
	}
	return items
}

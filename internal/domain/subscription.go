package domain

import "time"

// SubscriptionStatus captures the subscription lifecycle.
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "PENDING"
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

// Subscription links a user to a magazine. One row per (user, magazine) pair.
type Subscription struct {
	ID         string
	UserID     string
	MagazineID string
	Status     SubscriptionStatus
	StartDate  *time.Time
	EndDate    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

package domain

import "time"

// Magazine is a publication owned by a publisher account.
type Magazine struct {
	ID          string
	Title       string
	Description string
	PublisherID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package domain

import "time"

// ActivityLog records a single audited action. ActorID is nil for system jobs.
type ActivityLog struct {
	ID        string
	ActorID   *string
	Action    string
	Meta      map[string]any
	CreatedAt time.Time
}

package dto

import (
	"time"

	"github.com/spec-kit/magazine-service/internal/domain"
)

// ActivityResponse is one audit trail entry.
type ActivityResponse struct {
	ID        string         `json:"id"`
	ActorID   *string        `json:"actorId"`
	Action    string         `json:"action"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// NewActivityResponses maps a slice of audit entries.
func NewActivityResponses(entries []domain.ActivityLog) []ActivityResponse {
	items := make([]ActivityResponse, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		items = append(items, ActivityResponse{
			ID:        entry.ID,
			ActorID:   entry.ActorID,
			Action:    entry.Action,
			Meta:      entry.Meta,
			CreatedAt: entry.CreatedAt,
		})
	}
	return items
}

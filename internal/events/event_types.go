package events

import "time"

// EventType enumerates supported event identifiers. The string value doubles
// as the activity-log action name.
type EventType string

const (
	EventUserRegistered        EventType = "user.registered"
	EventUserLoggedIn          EventType = "auth.login"
	EventTokenRefreshed        EventType = "auth.refresh"
	EventUserLoggedOut         EventType = "auth.logout"
	EventPasswordReset         EventType = "auth.password_reset"
	EventEmailVerified         EventType = "auth.email_verified"
	EventMagazineCreated       EventType = "magazine.created"
	EventMagazineUpdated       EventType = "magazine.updated"
	EventMagazineDeleted       EventType = "magazine.deleted"
	EventCommentCreated        EventType = "comment.created"
	EventCommentApproved       EventType = "comment.approved"
	EventSubscriptionCreated   EventType = "subscription.created"
	EventSubscriptionActivated EventType = "subscription.activated"
	EventSubscriptionCancelled EventType = "subscription.cancelled"
	EventSubscriptionsExpired  EventType = "subscriptions.expired.batch"
	EventUserRoleUpdated       EventType = "admin.user.role.updated"
	EventDailyReportGenerated  EventType = "daily.report.generated"
)

// AllEventTypes lists every event the services can emit, in a stable order.
func AllEventTypes() []EventType {
	return []EventType{
		EventUserRegistered, EventUserLoggedIn, EventTokenRefreshed,
		EventUserLoggedOut, EventPasswordReset, EventEmailVerified,
		EventMagazineCreated, EventMagazineUpdated, EventMagazineDeleted,
		EventCommentCreated, EventCommentApproved,
		EventSubscriptionCreated, EventSubscriptionActivated,
		EventSubscriptionCancelled, EventSubscriptionsExpired,
		EventUserRoleUpdated, EventDailyReportGenerated,
	}
}

// Event represents a domain event emitted by services and jobs.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	ActorID   *string        `json:"actor_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Meta      map[string]any `json:"meta,omitempty"`
}

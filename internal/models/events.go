package models

import "time"

// EventKind names the notification-worthy moments in a complaint's life.
type EventKind string

const (
	EventSubmitted        EventKind = "submitted"
	EventStatusChanged    EventKind = "status_changed"
	EventResponseAdded    EventKind = "response_added"
	EventAccountActivated EventKind = "account_activated"
)

// NotificationEvent is the payload handed to the notification collaborator.
// The core only decides when to emit and what to say; templating and
// delivery happen downstream and are best-effort.
type NotificationEvent struct {
	Kind           EventKind `json:"kind"`
	RecipientEmail string    `json:"recipient_email"`
	Reference      string    `json:"reference"`
	Status         Status    `json:"status,omitempty"`
	Narrative      string    `json:"narrative,omitempty"`
	ResponderName  string    `json:"responder_name,omitempty"`
	// DepartmentID routes the event to the department's live feed and to its
	// configured alert channels. Zero means unrouted/global.
	DepartmentID uint      `json:"department_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

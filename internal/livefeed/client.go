package livefeed

import "servicom/backend/internal/models"

// Client is the interface for any connected dashboard consumer. It abstracts
// the underlying transport so the hub can manage client types uniformly.
type Client interface {
	// GetUserID returns the staff account the connection belongs to.
	GetUserID() string
	// GetDepartmentID returns the department whose events this client
	// receives. Zero means the client gets only global broadcasts.
	GetDepartmentID() uint

	// GetSendChannel returns the channel the hub writes events into. It is a
	// send-only channel from the hub's point of view.
	GetSendChannel() chan<- models.NotificationEvent

	// Run starts the client's pumps.
	Run()
	// Close shuts the client down and releases its channels.
	Close()
}

// Package notify decides when a notification leaves the system and with what
// payload. Rendering and delivery belong to the downstream collaborator;
// everything here is best-effort and a delivery problem never propagates
// back into the operation that triggered it.
package notify

import (
	"context"
	"log"
	"time"

	"servicom/backend/internal/config"
	"servicom/backend/internal/models"
)

// Publisher pushes events onto the durable notification queue.
type Publisher interface {
	Publish(ctx context.Context, queueName string, message interface{}) error
	Close()
}

// FeedBroadcaster mirrors events onto the live-feed channel for connected
// staff dashboards.
type FeedBroadcaster interface {
	PublishEvent(event models.NotificationEvent) error
}

// Trigger fans an event out to the queue and the live feed. Either side may
// be nil (disabled); failures are logged and swallowed.
type Trigger struct {
	Publisher Publisher
	Feed      FeedBroadcaster
}

// NewTrigger creates a new notification trigger.
func NewTrigger(p Publisher, feed FeedBroadcaster) *Trigger {
	return &Trigger{Publisher: p, Feed: feed}
}

// Emit dispatches the event asynchronously and returns immediately.
func (t *Trigger) Emit(event models.NotificationEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if t.Publisher != nil {
		go func() {
			// Background context: the triggering request must not cancel the
			// hand-off.
			if err := t.Publisher.Publish(context.Background(), config.NotificationsQueue, event); err != nil {
				log.Printf("ERROR: Failed to publish %s notification for %s: %v", event.Kind, event.Reference, err)
			}
		}()
	}

	if t.Feed != nil {
		go func() {
			if err := t.Feed.PublishEvent(event); err != nil {
				log.Printf("ERROR: Failed to broadcast %s event for %s: %v", event.Kind, event.Reference, err)
			}
		}()
	}
}

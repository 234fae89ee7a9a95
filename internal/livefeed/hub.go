// Package livefeed pushes complaint events to connected staff dashboards in
// real time. Events arrive over the Redis feed channel, so every server
// instance sees every event regardless of which instance handled the
// triggering request.
package livefeed

import (
	"context"
	"log"

	"servicom/backend/internal/models"
)

// FeedSource delivers the cross-instance event stream.
type FeedSource interface {
	SubscribeFeed(ctx context.Context) (<-chan models.NotificationEvent, error)
}

// Hub routes feed events to the connected clients of the matching
// department. All client bookkeeping happens on the Run goroutine.
type Hub struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client

	Feed FeedSource
}

// NewHub creates a new live-feed hub.
func NewHub(feed FeedSource) *Hub {
	return &Hub{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client, 16),
		UnregisterCh: make(chan Client, 16),
		Feed:         feed,
	}
}

// Run is the hub's main loop. It exits when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	events, err := h.Feed.SubscribeFeed(ctx)
	if err != nil {
		log.Printf("ERROR: Live feed subscription failed, dashboards will be static: %v", err)
	}
	log.Println("Live feed hub started.")

	for {
		select {
		case <-ctx.Done():
			for _, client := range h.Clients {
				client.Close()
			}
			h.Clients = make(map[string]Client)
			return

		case client := <-h.RegisterCh:
			// One connection per account; a reconnect replaces the old one.
			if old, ok := h.Clients[client.GetUserID()]; ok {
				old.Close()
			}
			h.Clients[client.GetUserID()] = client
			log.Printf("Live feed client registered: %s (department %d)", client.GetUserID(), client.GetDepartmentID())

		case client := <-h.UnregisterCh:
			if current, ok := h.Clients[client.GetUserID()]; ok && current == client {
				delete(h.Clients, client.GetUserID())
				client.Close()
			}

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			h.dispatch(event)
		}
	}
}

// dispatch fans one event out to the clients in its department. A zero
// department id broadcasts to everyone.
func (h *Hub) dispatch(event models.NotificationEvent) {
	for id, client := range h.Clients {
		if event.DepartmentID != 0 && client.GetDepartmentID() != event.DepartmentID {
			continue
		}
		select {
		case client.GetSendChannel() <- event:
		default:
			// The client stopped draining; drop it rather than block the hub.
			delete(h.Clients, id)
			client.Close()
		}
	}
}

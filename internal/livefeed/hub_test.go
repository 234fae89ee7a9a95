package livefeed_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"servicom/backend/internal/livefeed"
	"servicom/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

type mockClient struct {
	userID       string
	departmentID uint
	send         chan models.NotificationEvent

	mu     sync.Mutex
	closed bool
}

func newMockClient(userID string, departmentID uint) *mockClient {
	return &mockClient{
		userID:       userID,
		departmentID: departmentID,
		send:         make(chan models.NotificationEvent, 4),
	}
}

func (c *mockClient) GetUserID() string     { return c.userID }
func (c *mockClient) GetDepartmentID() uint { return c.departmentID }
func (c *mockClient) GetSendChannel() chan<- models.NotificationEvent {
	return c.send
}
func (c *mockClient) Run() {}
func (c *mockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
func (c *mockClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type stubFeed struct {
	events chan models.NotificationEvent
}

func (f *stubFeed) SubscribeFeed(ctx context.Context) (<-chan models.NotificationEvent, error) {
	return f.events, nil
}

// settle gives the hub's loop a moment to drain the buffered register
// channel before the test pushes feed events at it.
func settle() {
	time.Sleep(100 * time.Millisecond)
}

func receiveEvent(t *testing.T, c *mockClient) models.NotificationEvent {
	t.Helper()
	select {
	case event := <-c.send:
		return event
	case <-time.After(time.Second):
		t.Fatal("client never received the event")
		return models.NotificationEvent{}
	}
}

// TestHubRoutesByDepartment verifies events reach only the clients of the
// matching department, while department-less events broadcast to everyone.
func TestHubRoutesByDepartment(t *testing.T) {
	// Arrange
	feed := &stubFeed{events: make(chan models.NotificationEvent)}
	hub := livefeed.NewHub(feed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	water := newMockClient("staff-water", 3)
	roads := newMockClient("staff-roads", 8)
	hub.RegisterCh <- water
	hub.RegisterCh <- roads
	settle()

	// Act
	feed.events <- models.NotificationEvent{Kind: models.EventSubmitted, Reference: "ref-1", DepartmentID: 3}

	// Assert
	event := receiveEvent(t, water)
	assert.Equal(t, "ref-1", event.Reference)

	select {
	case <-roads.send:
		t.Fatal("event leaked to another department")
	case <-time.After(50 * time.Millisecond):
	}

	// Broadcast: no department id means everyone.
	feed.events <- models.NotificationEvent{Kind: models.EventAccountActivated}
	receiveEvent(t, water)
	receiveEvent(t, roads)
}

// TestHubReconnectReplacesClient verifies a second connection for the same
// account closes the first one.
func TestHubReconnectReplacesClient(t *testing.T) {
	feed := &stubFeed{events: make(chan models.NotificationEvent)}
	hub := livefeed.NewHub(feed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	first := newMockClient("staff-water", 3)
	second := newMockClient("staff-water", 3)
	hub.RegisterCh <- first
	hub.RegisterCh <- second
	settle()

	feed.events <- models.NotificationEvent{Kind: models.EventSubmitted, Reference: "ref-2", DepartmentID: 3}

	event := receiveEvent(t, second)
	assert.Equal(t, "ref-2", event.Reference)
	assert.True(t, first.isClosed(), "the replaced connection should be closed")
}

// TestHubShutdownClosesClients verifies cancelling the context closes every
// connected client.
func TestHubShutdownClosesClients(t *testing.T) {
	feed := &stubFeed{events: make(chan models.NotificationEvent)}
	hub := livefeed.NewHub(feed)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	client := newMockClient("staff-water", 3)
	hub.RegisterCh <- client
	settle()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub never stopped")
	}
	assert.True(t, client.isClosed())
}

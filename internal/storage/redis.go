package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"servicom/backend/internal/config"
	"servicom/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// SetDeactivated flips the fast-path deactivation flag checked on every
// authenticated request. The database row stays authoritative; the flag only
// short-circuits lookups.
func (s *Service) SetDeactivated(userID string, deactivated bool) error {
	key := config.DeactivatedKeyPrefix + userID
	if deactivated {
		return s.Redis.Set(s.Ctx, key, "1", 0).Err()
	}
	return s.Redis.Del(s.Ctx, key).Err()
}

// IsDeactivated checks the deactivation flag in Redis.
func (s *Service) IsDeactivated(userID string) (bool, error) {
	key := config.DeactivatedKeyPrefix + userID
	status, err := s.Redis.Get(s.Ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// PublishEvent broadcasts a notification event on the live-feed channel.
func (s *Service) PublishEvent(event models.NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, config.FeedChannel, string(payload)).Err()
}

// SubscribeFeed subscribes to the live-feed channel and returns a typed
// event stream. The stream closes when ctx is cancelled. Malformed payloads
// are logged and skipped.
func (s *Service) SubscribeFeed(ctx context.Context) (<-chan models.NotificationEvent, error) {
	pubsub := s.Redis.Subscribe(ctx, config.FeedChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	events := make(chan models.NotificationEvent)
	go func() {
		defer close(events)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event models.NotificationEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("Error unmarshalling feed event: %v", err)
					continue
				}
				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}

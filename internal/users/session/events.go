// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// EventKind names a session change.
type EventKind string

const (
	EventSignedIn    EventKind = "SIGNED_IN"
	EventSignedOut   EventKind = "SIGNED_OUT"
	EventUserUpdated EventKind = "USER_UPDATED"
)

// Event is one session change notification.
// Session is nil when the subject signed out, and on USER_UPDATED when only
// the stored profile changed.
type Event struct {
	Kind      EventKind        `json:"kind"`
	SubjectID string           `json:"subject_id"`
	Session   *ProviderSession `json:"session,omitempty"`
}

// EventSource delivers session change notifications until the returned
// unsubscribe function is called.
type EventSource interface {
	Subscribe(ctx context.Context) (events <-chan Event, unsubscribe func(), err error)
}

// EventPublisher announces session changes to every API replica.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// ProfileChanged is the event announcing a stored profile write for subjectID.
func ProfileChanged(subjectID string) Event {
	return Event{Kind: EventUserUpdated, SubjectID: subjectID}
}

// RedisEventBus carries session events over a Redis pub/sub channel.
type RedisEventBus struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// NewRedisEventBus creates a bus on channel.
func NewRedisEventBus(client *redis.Client, channel string, logger *slog.Logger) *RedisEventBus {
	return &RedisEventBus{client: client, channel: channel, logger: logger}
}

// Publish implements [EventPublisher].
func (bus *RedisEventBus) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("session_event_encode_failed: %w", err)
	}

	if err := bus.client.Publish(ctx, bus.channel, payload).Err(); err != nil {
		return fmt.Errorf("session_event_publish_failed: %w", err)
	}
	return nil
}

// Subscribe implements [EventSource].
func (bus *RedisEventBus) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	pubsub := bus.client.Subscribe(ctx, bus.channel)

	// Wait for the subscription confirmation so no event published after
	// Subscribe returns can be missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("session_event_subscribe_failed: %w", err)
	}

	events := make(chan Event)
	done := make(chan struct{})
	messages := pubsub.Channel()

	go func() {
		defer close(events)
		for {
			select {
			case message, ok := <-messages:
				if !ok {
					return
				}

				var event Event
				if err := json.Unmarshal([]byte(message.Payload), &event); err != nil {
					bus.logger.Warn("session_event_decode_failed", slog.Any("error", err))
					continue
				}

				select {
				case events <- event:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}

	return events, unsubscribe, nil
}

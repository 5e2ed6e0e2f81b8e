// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package messaging sends and reads direct messages between two users.

A conversation is every message exchanged by a pair of users in either
direction, oldest first. New messages are announced on the receiver's inbox
channel so connected replicas can push them; delivery of that notice is best
effort and never fails the send.
*/
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/redis/go-redis/v9"

	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/constants"
	"github.com/bazaari/bazaari/internal/platform/validate"
	"github.com/bazaari/bazaari/pkg/uuid"
)

// # Domain Entities

// Message is one direct message.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	AdID       *string   `json:"ad_id,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"timestamp"`
}

// SendInput is a message to be sent by the signed-in user.
type SendInput struct {
	ReceiverID string  `json:"receiver_id"`
	AdID       *string `json:"ad_id,omitempty"`
	Content    string  `json:"content"`
}

// Field identifiers.
const (
	FieldReceiverID = "receiver_id"
	FieldContent    = "content"
)

// # Contracts

// Store persists messages.
type Store interface {
	Insert(ctx context.Context, message *Message) error

	// Conversation returns the messages between a and b in either direction, oldest first.
	Conversation(ctx context.Context, a, b string, limit int) ([]*Message, error)
}

// Notifier announces a stored message to its receiver.
type Notifier interface {
	Notify(ctx context.Context, message *Message) error
}

// RedisNotifier publishes new messages on per-receiver channels.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a notifier on client.
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// Notify implements [Notifier].
func (notifier *RedisNotifier) Notify(ctx context.Context, message *Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("message_notify_encode_failed: %w", err)
	}
	if err := notifier.client.Publish(ctx, constants.RedisChannelInboxPrefix+message.ReceiverID, payload).Err(); err != nil {
		return fmt.Errorf("message_notify_publish_failed: %w", err)
	}
	return nil
}

// # Service Layer

// conversationLimit caps one conversation read.
const conversationLimit = 500

// Service implements messaging business logic.
type Service struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger
}

// NewService constructs a new [Service]. notifier may be nil.
func NewService(store Store, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, notifier: notifier, logger: logger}
}

/*
Send stores a message from senderID.

Rules:
  - Content is trimmed and must not be empty.
  - A user cannot message themselves.

Returns:
  - *Message: The stored message
  - error: VALIDATION_ERROR, or REMOTE_WRITE_ERROR when the insert fails
*/
func (service *Service) Send(ctx context.Context, senderID string, input SendInput) (*Message, error) {
	content := strings.TrimSpace(input.Content)
	receiverID := strings.TrimSpace(input.ReceiverID)

	err := (&validate.Validator{}).
		Required(FieldReceiverID, receiverID).
		Custom(FieldReceiverID, receiverID != "" && receiverID == senderID, "Cannot message yourself").
		Required(FieldContent, content).
		Custom(FieldContent, utf8.RuneCountInString(content) > constants.MessageMaxLength, "Message is too long").
		Err()
	if err != nil {
		return nil, err
	}

	message := &Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		AdID:       input.AdID,
		Content:    content,
	}
	if err := service.store.Insert(ctx, message); err != nil {
		service.logger.ErrorContext(ctx, "message_send_failed",
			slog.String("sender_id", senderID),
			slog.Any("error", err),
		)
		return nil, apperr.RemoteWrite("Failed to send message", err)
	}

	if service.notifier != nil {
		if err := service.notifier.Notify(ctx, message); err != nil {
			service.logger.WarnContext(ctx, "message_notify_failed",
				slog.String("message_id", message.ID),
				slog.Any("error", err),
			)
		}
	}
	return message, nil
}

// Conversation returns the messages between userID and peerID, oldest first.
func (service *Service) Conversation(ctx context.Context, userID, peerID string) ([]*Message, error) {
	if peerID == "" || peerID == userID {
		return nil, validate.RequiredError(FieldReceiverID, "Select another user")
	}

	messages, err := service.store.Conversation(ctx, userID, peerID, conversationLimit)
	if err != nil {
		return nil, fmt.Errorf("messaging_service_conversation_failed: %w", err)
	}
	return messages, nil
}

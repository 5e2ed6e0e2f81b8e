// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package messaging_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaari/bazaari/internal/messaging"
	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/sec"
	"github.com/bazaari/bazaari/internal/users/session"
)

type memoryStore struct {
	mu       sync.Mutex
	messages []*messaging.Message
	err      error
}

func (store *memoryStore) Insert(_ context.Context, message *messaging.Message) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.err != nil {
		return store.err
	}
	message.CreatedAt = time.Now()
	store.messages = append(store.messages, message)
	return nil
}

func (store *memoryStore) Conversation(_ context.Context, a, b string, _ int) ([]*messaging.Message, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var out []*messaging.Message
	for _, message := range store.messages {
		if (message.SenderID == a && message.ReceiverID == b) || (message.SenderID == b && message.ReceiverID == a) {
			out = append(out, message)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	notified []string
	err      error
}

func (notifier *recordingNotifier) Notify(_ context.Context, message *messaging.Message) error {
	notifier.notified = append(notifier.notified, message.ReceiverID)
	return notifier.err
}

func newService() (*messaging.Service, *memoryStore, *recordingNotifier) {
	store := &memoryStore{}
	notifier := &recordingNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return messaging.NewService(store, notifier, logger), store, notifier
}

/*
TestSend_Validation verifies empty and self-addressed messages are rejected before any write.
*/
func TestSend_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input messaging.SendInput
	}{
		{"empty_content", messaging.SendInput{ReceiverID: "u2", Content: "   "}},
		{"no_receiver", messaging.SendInput{Content: "hi"}},
		{"self", messaging.SendInput{ReceiverID: "u1", Content: "hi"}},
		{"too_long", messaging.SendInput{ReceiverID: "u2", Content: strings.Repeat("a", 2001)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store, _ := newService()
			_, err := service.Send(context.Background(), "u1", tt.input)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
			assert.Empty(t, store.messages)
		})
	}
}

/*
TestSend verifies a stored message is announced and a failed write is a remote error.
*/
func TestSend(t *testing.T) {
	service, store, notifier := newService()

	message, err := service.Send(context.Background(), "u1", messaging.SendInput{ReceiverID: "u2", Content: " Is it available? "})
	require.NoError(t, err)
	assert.Equal(t, "Is it available?", message.Content)
	assert.Equal(t, []string{"u2"}, notifier.notified)

	// A failed notice does not fail the send.
	notifier.err = errors.New("redis down")
	_, err = service.Send(context.Background(), "u2", messaging.SendInput{ReceiverID: "u1", Content: "Yes"})
	require.NoError(t, err)
	assert.Len(t, store.messages, 2)

	store.err = errors.New("insert failed")
	_, err = service.Send(context.Background(), "u1", messaging.SendInput{ReceiverID: "u2", Content: "Great"})
	assert.True(t, apperr.HasCode(err, apperr.CodeRemoteWrite))
	assert.Len(t, store.messages, 2)
}

/*
TestConversation verifies both directions are returned in order.
*/
func TestConversation(t *testing.T) {
	service, _, _ := newService()
	ctx := context.Background()

	_, err := service.Send(ctx, "u1", messaging.SendInput{ReceiverID: "u2", Content: "one"})
	require.NoError(t, err)
	_, err = service.Send(ctx, "u3", messaging.SendInput{ReceiverID: "u1", Content: "other"})
	require.NoError(t, err)
	_, err = service.Send(ctx, "u2", messaging.SendInput{ReceiverID: "u1", Content: "two"})
	require.NoError(t, err)

	messages, err := service.Conversation(ctx, "u1", "u2")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "one", messages[0].Content)
	assert.Equal(t, "two", messages[1].Content)

	_, err = service.Conversation(ctx, "u1", "u1")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestHandler_Send verifies the HTTP surface requires a principal.
*/
func TestHandler_Send(t *testing.T) {
	service, store, _ := newService()
	router := messaging.NewHandler(service).Routes()
	body := `{"receiver_id":"u2","content":"hello"}`

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	request = request.WithContext(session.WithPrincipal(request.Context(), session.Principal{ID: "u1", Role: sec.RoleNormal}))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Len(t, store.messages, 1)
}

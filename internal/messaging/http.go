// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package messaging

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/bazaari/bazaari/internal/platform/request"
	"github.com/bazaari/bazaari/internal/platform/respond"
	"github.com/bazaari/bazaari/internal/platform/validate"
	"github.com/bazaari/bazaari/internal/users/session"
)

// Handler exposes direct messages. Every route requires a principal.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for messages.
//
// # Endpoints
//   - POST /           : Send a message.
//   - GET  /{peerID}   : Conversation with a peer, oldest first.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.send)
	router.Get("/{peerID}", handler.conversation)

	return router
}

/*
Send stores a message from the signed-in user.

POST /api/v1/messages

Request:
  - Body: SendInput

Response:
  - 201: Message
  - 400: VALIDATION_ERROR: Empty content or self as receiver
  - 502: REMOTE_WRITE_ERROR
*/
func (handler *Handler) send(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input SendInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	message, err := handler.service.Send(request.Context(), current.ID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, message)
}

func (handler *Handler) conversation(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	messages, err := handler.service.Conversation(request.Context(), current.ID, requestutil.Param(request, "peerID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, messages)
}

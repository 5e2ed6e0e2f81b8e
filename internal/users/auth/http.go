// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/middleware"
	requestutil "github.com/bazaari/bazaari/internal/platform/request"
	"github.com/bazaari/bazaari/internal/platform/respond"
	"github.com/bazaari/bazaari/internal/platform/validate"
)

// # Definitions & Constructors

// Handler exposes the one-time code wizard over HTTP.
//
// The flow id returned by POST /otp is the only credential for the later
// steps; nobody is signed in yet.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the wizard routes.
//
// # Endpoints
//   - POST /otp                     : Submit credentials, open a flow.
//   - GET  /otp/{id}                : Current view.
//   - POST /otp/{id}/credentials    : Resubmit credentials after going back.
//   - POST /otp/{id}/back           : Return to the credentials form.
//   - PUT  /otp/{id}/code           : Replace the whole code.
//   - PUT  /otp/{id}/digits/{index} : Set one code position.
//   - POST /otp/{id}/verify         : Verify the code.
//   - POST /otp/{id}/resend         : Resend once the cooldown is over.
//   - POST /logout                  : Sign out (authenticated).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/otp", handler.start)
	router.Route("/otp/{id}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Post("/credentials", handler.credentials)
		r.Post("/back", handler.back)
		r.Put("/code", handler.setCode)
		r.Put("/digits/{index}", handler.setDigit)
		r.Post("/verify", handler.verify)
		r.Post("/resend", handler.resend)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type credentialsRequest struct {
	Mode     Mode   `json:"mode"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (input credentialsRequest) toInput() CredentialsInput {
	return CredentialsInput{Mode: input.Mode, Email: input.Email, Password: input.Password}
}

type codeRequest struct {
	Code string `json:"code"`
}

type digitRequest struct {
	Value string `json:"value"`
}

/*
Start submits credentials and opens a flow.

POST /api/v1/auth/otp

Request:
  - Body: credentialsRequest (Mode, Email, Password)

Response:
  - 201: View: flow on code-sent
  - 400: VALIDATION_ERROR
  - 401: AUTH_ERROR: Rejected credentials or duplicate registration
*/
func (handler *Handler) start(writer http.ResponseWriter, request *http.Request) {
	var input credentialsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	view, err := handler.authService.Start(request.Context(), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, view)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.authService.Get(requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) credentials(writer http.ResponseWriter, request *http.Request) {
	var input credentialsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	view, err := handler.authService.SubmitCredentials(request.Context(), requestutil.Param(request, "id"), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) back(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.authService.Back(requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) setCode(writer http.ResponseWriter, request *http.Request) {
	var input codeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	view, err := handler.authService.SetCode(requestutil.Param(request, "id"), input.Code)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) setDigit(writer http.ResponseWriter, request *http.Request) {
	index, err := strconv.Atoi(requestutil.Param(request, "index"))
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldIndex, "must be a number"))
		return
	}

	var input digitRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	view, err := handler.authService.SetDigit(requestutil.Param(request, "id"), index, input.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

/*
Verify submits the entered code.

POST /api/v1/auth/otp/{id}/verify

Response:
  - 200: View: signed-in, carrying the provider session
  - 400: VALIDATION_ERROR: Incomplete code (no provider call made)
  - 401: AUTH_ERROR: Code rejected; the flow is on retry-verifying with digits kept
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.authService.Verify(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

/*
Resend asks for a fresh code.

POST /api/v1/auth/otp/{id}/resend

Response:
  - 200: View: countdown restarted
  - 429: RATE_LIMITED: Cooldown still running
*/
func (handler *Handler) resend(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.authService.Resend(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

/*
Logout terminates the provider session.

POST /api/v1/auth/logout

Response:
  - 204: No Content
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, ok := bearerToken(request)
	if !ok {
		respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
		return
	}

	if err := handler.authService.Logout(request.Context(), token, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func bearerToken(request *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(request.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return token, true
}

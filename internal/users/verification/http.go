// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package verification

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bazaari/bazaari/internal/payment"
	"github.com/bazaari/bazaari/internal/platform/constants"
	requestutil "github.com/bazaari/bazaari/internal/platform/request"
	"github.com/bazaari/bazaari/internal/platform/respond"
	"github.com/bazaari/bazaari/internal/platform/validate"
	"github.com/bazaari/bazaari/internal/users/session"
)

// Handler exposes the upgrade wizard. Every route requires a principal.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for the upgrade wizard.
//
// # Endpoints
//   - GET    /status               : Latest submitted request.
//   - POST   /                     : Open the wizard.
//   - GET    /{id}                 : Current view.
//   - DELETE /{id}                 : Dismiss.
//   - POST   /{id}/begin           : Plan intro to identity capture.
//   - POST   /{id}/back            : Back to the plan intro.
//   - POST   /{id}/camera          : Open the camera for a side.
//   - PUT    /{id}/camera/frame    : Upload the captured frame.
//   - DELETE /{id}/camera          : Cancel the capture.
//   - PUT    /{id}/identity        : Full name and NID number.
//   - POST   /{id}/payment         : Proceed to payment.
//   - POST   /{id}/submit          : Submit with the payment reference.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/status", handler.status)
	router.Post("/", handler.start)
	router.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.viewStep(handler.service.Get))
		r.Delete("/", handler.dismiss)
		r.Post("/begin", handler.viewStep(handler.service.Begin))
		r.Post("/back", handler.viewStep(handler.service.Back))
		r.Post("/camera", handler.openCamera)
		r.Put("/camera/frame", handler.captureFrame)
		r.Delete("/camera", handler.viewStep(handler.service.CancelCapture))
		r.Put("/identity", handler.setIdentity)
		r.Post("/payment", handler.viewStep(handler.service.ProceedToPayment))
		r.Post("/submit", handler.submit)
	})

	return router
}

type cameraRequest struct {
	Side       Side   `json:"side"`
	Permission string `json:"permission"`
}

type identityRequest struct {
	FullName  string `json:"full_name"`
	NIDNumber string `json:"nid_number"`
}

func (handler *Handler) start(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Start(current)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, view)
}

// viewStep wraps the handlers whose only input is the flow id.
func (handler *Handler) viewStep(step func(id, owner string) (View, error)) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		current, err := session.Required(request.Context())
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		view, err := step(requestutil.Param(request, "id"), current.ID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, view)
	}
}

func (handler *Handler) dismiss(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.service.Dismiss(requestutil.Param(request, "id"), current.ID)
	respond.NoContent(writer)
}

/*
OpenCamera acquires the camera for one side of the card.

POST /api/v1/verification/{id}/camera

Request:
  - Body: cameraRequest (Side, Permission "granted" or "denied")

Response:
  - 200: View: Capturing set to the side
  - 424: RESOURCE_ERROR: Camera access denied, flow unchanged
*/
func (handler *Handler) openCamera(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input cameraRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	ctx := request.Context()
	if strings.EqualFold(input.Permission, "denied") {
		ctx = WithPermissionDenied(ctx)
	}

	view, err := handler.service.StartCapture(ctx, requestutil.Param(request, "id"), current.ID, input.Side)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

/*
CaptureFrame delivers the image taken by the open camera.

PUT /api/v1/verification/{id}/camera/frame

Request:
  - Body: raw image/jpeg or image/png bytes

Response:
  - 200: View: side captured, camera released
  - 400: VALIDATION_ERROR: Empty, oversized or non-image body
*/
func (handler *Handler) captureFrame(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	frame, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, constants.MaxFrameBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, validate.RequiredError("frame", "image is too large"))
			return
		}
		respond.Error(writer, request, validate.RequiredError("frame", "could not read image"))
		return
	}
	if len(frame) > 0 && !strings.HasPrefix(http.DetectContentType(frame), "image/") {
		respond.Error(writer, request, validate.RequiredError("frame", "must be an image"))
		return
	}

	ctx := WithFrame(request.Context(), frame)
	view, err := handler.service.Capture(ctx, requestutil.Param(request, "id"), current.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) setIdentity(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input identityRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	view, err := handler.service.SetIdentity(requestutil.Param(request, "id"), current.ID, input.FullName, input.NIDNumber)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

/*
Submit records the pending verification request.

POST /api/v1/verification/{id}/submit

Request:
  - Body: payment.Reference (Method, TransactionID)

Response:
  - 200: View: submitted-pending-review with the expected review delay
  - 400: VALIDATION_ERROR: Missing transaction id
  - 502: REMOTE_WRITE_ERROR: Insert failed, flow stays on the payment step
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input payment.Reference
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	view, err := handler.service.Submit(request.Context(), requestutil.Param(request, "id"), current.ID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) status(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	latest, err := handler.service.Status(request.Context(), current.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, latest)
}

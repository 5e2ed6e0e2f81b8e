// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package ad

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bazaari/bazaari/internal/payment"
	requestutil "github.com/bazaari/bazaari/internal/platform/request"
	"github.com/bazaari/bazaari/internal/platform/respond"
	"github.com/bazaari/bazaari/internal/platform/validate"
	"github.com/bazaari/bazaari/internal/users/session"
	"github.com/bazaari/bazaari/pkg/pagination"
	"github.com/bazaari/bazaari/pkg/query"
	"github.com/bazaari/bazaari/pkg/slice"
)

// Handler exposes listings and the boost wizard.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for listings.
//
// # Endpoints
//   - GET    /                    : Home feed {featured, recent, combined}.
//   - POST   /                    : Publish a listing (auth).
//   - POST   /assist              : Draft a description with the assistant (auth).
//   - GET    /{id}                : One listing.
//   - POST   /{id}/boost          : Open the boost wizard for an own listing (auth).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.feed)
	router.Post("/", handler.publish)
	router.Post("/assist", handler.assist)
	router.Get("/{id}", handler.get)
	router.Post("/{id}/boost", handler.startBoost)

	return router
}

// BoostRoutes returns a [chi.Router] for boost wizard instances. Every route requires auth.
//
// # Endpoints
//   - GET    /{id}         : Current view.
//   - DELETE /{id}         : Cancel.
//   - PUT    /{id}/plan    : Choose a plan by days.
//   - PUT    /{id}/method  : Choose the payment method.
//   - POST   /{id}/proceed : Continue to the payment reference.
//   - POST   /{id}/back    : Back to plan selection.
//   - POST   /{id}/submit  : Submit the transaction id.
func (handler *Handler) BoostRoutes() chi.Router {
	router := chi.NewRouter()

	router.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.boostStep(handler.service.GetBoost))
		r.Delete("/", handler.cancelBoost)
		r.Put("/plan", handler.choosePlan)
		r.Put("/method", handler.chooseMethod)
		r.Post("/proceed", handler.boostStep(handler.service.Proceed))
		r.Post("/back", handler.boostStep(handler.service.BackToPlans))
		r.Post("/submit", handler.submitBoost)
	})

	return router
}

type planRequest struct {
	Days int `json:"days"`
}

type methodRequest struct {
	Method payment.Method `json:"method"`
}

type submitRequest struct {
	TransactionID string `json:"transaction_id"`
}

type assistResponse struct {
	Description string `json:"description"`
}

// # Listings

/*
Feed returns the home page listings.

GET /api/v1/ads?category=&location=&q=&min_price=&max_price=&page=&limit=

Request:
  - category: comma separated, e.g. "Electronics,Vehicles"

Response:
  - 200: Feed with pagination meta
*/
func (handler *Handler) feed(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()
	filter := Filter{
		Categories: slice.Map(query.StringSlice(params.Get("category")), func(raw string) Category { return Category(raw) }),
		Location:   params.Get("location"),
		Search:     strings.TrimSpace(params.Get("q")),
		MinPrice:   query.Int64(params.Get("min_price")),
		MaxPrice:   query.Int64(params.Get("max_price")),
	}
	page := pagination.FromRequest(request)

	feed, total, err := handler.service.Feed(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, feed, pagination.NewMeta(page.Page, page.Limit, total))
}

/*
Publish stores a new listing for review.

POST /api/v1/ads

Request:
  - Body: Draft

Response:
  - 201: Listing (status pending)
  - 400: VALIDATION_ERROR
  - 502: REMOTE_WRITE_ERROR
*/
func (handler *Handler) publish(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var draft Draft
	if err := requestutil.DecodeJSON(request, &draft); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	listing, err := handler.service.Publish(request.Context(), current.ID, draft)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, listing)
}

func (handler *Handler) assist(writer http.ResponseWriter, request *http.Request) {
	if _, err := session.Required(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input AssistInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	description, err := handler.service.Assist(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, assistResponse{Description: description})
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	listing, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, listing)
}

// # Boost

func (handler *Handler) startBoost(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.StartBoost(request.Context(), current.ID, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, view)
}

// boostStep wraps the handlers whose only input is the boost id.
func (handler *Handler) boostStep(step func(id, owner string) (BoostView, error)) http.HandlerFunc {
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

func (handler *Handler) cancelBoost(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	handler.service.CancelBoost(requestutil.Param(request, "id"), current.ID)
	respond.NoContent(writer)
}

func (handler *Handler) choosePlan(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input planRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	view, err := handler.service.ChoosePlan(requestutil.Param(request, "id"), current.ID, input.Days)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) chooseMethod(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input methodRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	view, err := handler.service.ChooseMethod(requestutil.Param(request, "id"), current.ID, input.Method)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

/*
SubmitBoost records the boost claim.

POST /api/v1/boosts/{id}/submit

Request:
  - Body: submitRequest (TransactionID)

Response:
  - 200: BoostView: submitted-pending-review with the expected review delay
  - 400: VALIDATION_ERROR: Missing transaction id
  - 502: REMOTE_WRITE_ERROR: Nothing written, boost stays on the payment step
*/
func (handler *Handler) submitBoost(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input submitRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	view, err := handler.service.SubmitBoost(request.Context(), requestutil.Param(request, "id"), current.ID, input.TransactionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

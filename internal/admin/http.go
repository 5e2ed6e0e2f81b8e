// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/bazaari/bazaari/internal/platform/request"
	"github.com/bazaari/bazaari/internal/platform/respond"
	"github.com/bazaari/bazaari/pkg/pagination"
)

// Handler exposes the Owner dashboard.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for the dashboard.
//
// # Endpoints
//   - GET /overview        : Headline counters
//   - GET /queues/{queue}  : Pending ads or payments, oldest first
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/overview", handler.overview)
	router.Get("/queues/{queue}", handler.queue)

	return router
}

/*
Overview returns the dashboard counters.

GET /api/v1/admin/overview

Response:
  - 200: Overview
  - 403: FORBIDDEN: Viewer is not the Owner
*/
func (handler *Handler) overview(writer http.ResponseWriter, request *http.Request) {
	overview, err := handler.service.Overview(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, overview)
}

func (handler *Handler) queue(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	queue := Queue(requestutil.Param(request, "queue"))

	items, total, err := handler.service.Queue(request.Context(), queue, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, items, pagination.NewMeta(page.Page, page.Limit, total))
}

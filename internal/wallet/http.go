// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package wallet

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bazaari/bazaari/internal/payment"
	requestutil "github.com/bazaari/bazaari/internal/platform/request"
	"github.com/bazaari/bazaari/internal/platform/respond"
	"github.com/bazaari/bazaari/internal/platform/validate"
	"github.com/bazaari/bazaari/pkg/pagination"
)

// Handler exposes the wallet. Every route requires authentication.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for the wallet.
//
// # Endpoints
//   - GET    /transactions          : History, newest first.
//   - POST   /deposits              : Open a deposit.
//   - GET    /deposits/{id}         : Current view.
//   - DELETE /deposits/{id}         : Cancel.
//   - PUT    /deposits/{id}/amount  : Set the amount.
//   - POST   /deposits/{id}/next    : Continue to the payment reference.
//   - POST   /deposits/{id}/submit  : Submit the reference.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/transactions", handler.history)
	router.Post("/deposits", handler.start)
	router.Route("/deposits/{id}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Delete("/", handler.cancel)
		r.Put("/amount", handler.setAmount)
		r.Post("/next", handler.next)
		r.Post("/submit", handler.submit)
	})

	return router
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

/*
History lists the signed-in user's transactions.

GET /api/v1/wallet/transactions?page=&limit=

Response:
  - 200: []Transaction with pagination meta
*/
func (handler *Handler) history(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	transactions, total, err := handler.service.History(request.Context(), userID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, transactions, pagination.NewMeta(page.Page, page.Limit, total))
}

func (handler *Handler) start(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, handler.service.Start(userID))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Get(requestutil.Param(request, "id"), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) cancel(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.service.Cancel(requestutil.Param(request, "id"), userID)
	respond.NoContent(writer)
}

func (handler *Handler) setAmount(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input amountRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	view, err := handler.service.SetAmount(requestutil.Param(request, "id"), userID, input.Amount)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) next(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Next(requestutil.Param(request, "id"), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

/*
Submit records the deposit claim.

POST /api/v1/wallet/deposits/{id}/submit

Request:
  - Body: payment.Reference (Method, TransactionID)

Response:
  - 200: View: submitted-pending-review with the Pending transaction
  - 400: VALIDATION_ERROR: Missing transaction id or unknown method
  - 502: REMOTE_WRITE_ERROR: Nothing written, deposit stays on the reference step
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input payment.Reference
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	view, err := handler.service.Submit(request.Context(), requestutil.Param(request, "id"), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

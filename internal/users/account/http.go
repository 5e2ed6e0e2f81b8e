// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package account

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bazaari/bazaari/internal/marketplace/ad"
	requestutil "github.com/bazaari/bazaari/internal/platform/request"
	"github.com/bazaari/bazaari/internal/platform/respond"
	"github.com/bazaari/bazaari/internal/platform/validate"
	"github.com/bazaari/bazaari/internal/users/access"
	"github.com/bazaari/bazaari/internal/users/session"
)

// SellerListings lists a seller's ads for the public profile page.
type SellerListings interface {
	BySeller(ctx context.Context, sellerID string) ([]*ad.Listing, error)
}

// Handler implements the HTTP layer for profiles.
type Handler struct {
	coordinator *Coordinator
	directory   *Directory
	listings    SellerListings
}

// NewHandler constructs a new account [Handler].
func NewHandler(coordinator *Coordinator, directory *Directory, listings SellerListings) *Handler {
	return &Handler{coordinator: coordinator, directory: directory, listings: listings}
}

// Routes returns a [chi.Router] configured with the account endpoints.
//
// # Endpoints
//   - GET   /me              : Signed-in principal with badge and capabilities.
//   - PATCH /me              : Save profile settings.
//   - GET   /users/{id}      : Public profile with the seller's ads.
//   - GET   /users/{id}/ads  : The seller's ads only, newest first.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)
	router.Get("/users/{id}", handler.getUserProfile)
	router.Get("/users/{id}/ads", handler.listUserAds)

	return router
}

// meResponse is the principal as rendered for its owner.
type meResponse struct {
	session.Principal
	Capabilities access.Capabilities `json:"capabilities"`
}

func renderMe(principal session.Principal) meResponse {
	return meResponse{
		Principal:    principal,
		Capabilities: access.For(&principal).Capabilities(),
	}
}

type userProfileResponse struct {
	Profile PublicProfile `json:"profile"`
	Badge   access.Badge  `json:"badge"`
	Ads     []*ad.Listing `json:"ads"`
}

/*
GetMe returns the signed-in principal.

GET /api/v1/me

Response:
  - 200: meResponse
  - 401: UNAUTHORIZED
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, renderMe(*current))
}

/*
UpdateMe saves profile settings.

PATCH /api/v1/me

Request:
  - Body: ProfileEdit (only present fields change)

Response:
  - 200: meResponse with the merged principal
  - 400: VALIDATION_ERROR
  - 502: REMOTE_WRITE_ERROR: Nothing changed
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	current, err := session.Required(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var edit ProfileEdit
	if err := requestutil.DecodeJSON(request, &edit); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	saved, err := handler.coordinator.Save(request.Context(), current.ID, edit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, renderMe(saved))
}

/*
GetUserProfile returns a public profile and the user's ads.

GET /api/v1/users/{id}

Response:
  - 200: userProfileResponse
  - 404: NOT_FOUND
*/
func (handler *Handler) getUserProfile(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	profile, err := handler.directory.Profile(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	listings, err := handler.listings.BySeller(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, userProfileResponse{
		Profile: profile,
		Badge:   access.BadgeFor(profile.Role),
		Ads:     listings,
	})
}

func (handler *Handler) listUserAds(writer http.ResponseWriter, request *http.Request) {
	listings, err := handler.listings.BySeller(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, listings)
}

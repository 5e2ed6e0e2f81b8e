// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package ad

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bazaari/bazaari/internal/payment"
	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/dberr"
	"github.com/bazaari/bazaari/internal/platform/validate"
	"github.com/bazaari/bazaari/internal/wizard"
	"github.com/bazaari/bazaari/pkg/pagination"
	"github.com/bazaari/bazaari/pkg/uuid"
)

// Feed is the home page payload.
type Feed struct {
	Featured []*Listing `json:"featured"`
	Recent   []*Listing `json:"recent"`
	Combined []*Listing `json:"combined"`
}

// AssistInput is the part of a draft the assistant reads.
type AssistInput struct {
	Title        string        `json:"title"`
	Category     Category      `json:"category"`
	RentalTarget *RentalTarget `json:"rental_target,omitempty"`
	Description  string        `json:"description"`
}

// Service implements listing and boost business logic.
type Service struct {
	store     Store
	boosts    *wizard.Registry[*Boost]
	assistant DescriptionAssistant
	observer  wizard.Observer
	delay     time.Duration
	logger    *slog.Logger
}

/*
NewService constructs a new [Service].

Parameters:
  - assistant: DescriptionAssistant (nil disables Assist)
  - observer: wizard.Observer (nil allowed)
  - delay: time.Duration advertised once a boost is submitted
*/
func NewService(store Store, boosts *wizard.Registry[*Boost], assistant DescriptionAssistant, observer wizard.Observer, delay time.Duration, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		boosts:    boosts,
		assistant: assistant,
		observer:  observer,
		delay:     delay,
		logger:    logger,
	}
}

// # Listings

// Publish validates draft and stores it as a pending listing owned by sellerID.
func (service *Service) Publish(ctx context.Context, sellerID string, draft Draft) (*Listing, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	listing := draft.listing(sellerID)
	if err := service.store.Insert(ctx, listing); err != nil {
		service.logger.ErrorContext(ctx, "ad_publish_failed",
			slog.String("seller_id", sellerID),
			slog.Any("error", err),
		)
		return nil, apperr.RemoteWrite("Error publishing ad", err)
	}

	service.logger.InfoContext(ctx, "ad_published",
		slog.String("ad_id", listing.ID),
		slog.String("seller_id", sellerID),
	)
	return listing, nil
}

// Feed loads one page of listings and partitions it into featured and recent.
func (service *Service) Feed(ctx context.Context, filter Filter, page pagination.Params) (Feed, int, error) {
	listings, total, err := service.store.List(ctx, filter, page)
	if err != nil {
		return Feed{}, 0, dberr.Wrap(err, "Ads", "ad_service_feed_failed")
	}

	partitioned := Partition(listings)
	return Feed{
		Featured: partitioned.Boosted,
		Recent:   partitioned.Regular,
		Combined: partitioned.Combined(),
	}, total, nil
}

// Get returns one listing.
func (service *Service) Get(ctx context.Context, id string) (*Listing, error) {
	listing, err := service.store.FindByID(ctx, id)
	if err != nil {
		return nil, dberr.Wrap(err, "Ad", "ad_service_get_failed")
	}
	return listing, nil
}

// BySeller returns a seller's listings, newest first.
func (service *Service) BySeller(ctx context.Context, sellerID string) ([]*Listing, error) {
	listings, err := service.store.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("ad_service_by_seller_failed: %w", err)
	}
	return listings, nil
}

/*
Assist drafts a description for the listing.

On any failure the returned description is input.Description unchanged, so the
caller can always render the result.
*/
func (service *Service) Assist(ctx context.Context, input AssistInput) (string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return input.Description, validate.RequiredError(FieldTitle, "Enter a title first")
	}
	if service.assistant == nil {
		return input.Description, apperr.Resource("AI optimization failed.", ErrAssistantDisabled)
	}

	text, err := service.assistant.GenerateText(ctx, descriptionPrompt(title, input.Category, input.RentalTarget))
	if err != nil {
		service.logger.WarnContext(ctx, "ad_assist_failed", slog.Any("error", err))
		return input.Description, apperr.Resource("AI optimization failed.", err)
	}
	return text, nil
}

// # Boost Wizard

// StartBoost opens a boost for one of userID's listings, replacing any unfinished boost.
func (service *Service) StartBoost(ctx context.Context, userID, adID string) (BoostView, error) {
	listing, err := service.Get(ctx, adID)
	if err != nil {
		return BoostView{}, err
	}
	if listing.SellerID != userID {
		return BoostView{}, apperr.Forbidden("Only the seller can boost this ad")
	}

	plan, _ := PlanFor(DefaultPlanDays)
	boost := &Boost{
		machine: wizard.NewMachine(BoostFlowName, BoostChoosingPlan, boostEdges, service.observer),
		adID:    listing.ID,
		title:   listing.Title,
		plan:    plan,
		method:  payment.DefaultMethod,
		delay:   service.delay,
	}
	id := service.boosts.Start(userID, boost)
	return boost.view(id), nil
}

// GetBoost renders the boost.
func (service *Service) GetBoost(id, userID string) (BoostView, error) {
	return service.boostStep(id, userID, func(*Boost) error { return nil })
}

// ChoosePlan selects one of [Plans] by its duration.
func (service *Service) ChoosePlan(id, userID string, days int) (BoostView, error) {
	return service.boostStep(id, userID, func(boost *Boost) error {
		if err := boost.machine.Require(BoostChoosingPlan); err != nil {
			return err
		}
		plan, ok := PlanFor(days)
		if !ok {
			return validate.RequiredError(FieldDays, "Must be one of: 3, 7, 15")
		}
		boost.plan = plan
		return nil
	})
}

// ChooseMethod selects the payment provider. Only allowed while choosing the plan.
func (service *Service) ChooseMethod(id, userID string, method payment.Method) (BoostView, error) {
	return service.boostStep(id, userID, func(boost *Boost) error {
		if err := boost.machine.Require(BoostChoosingPlan); err != nil {
			return err
		}
		if !method.IsValid() {
			return validate.RequiredError(FieldMethod, "Must be one of: bKash, Nagad, Rocket")
		}
		boost.method = method
		return nil
	})
}

// Proceed moves to the payment reference step. Nothing is written.
func (service *Service) Proceed(id, userID string) (BoostView, error) {
	return service.boostStep(id, userID, func(boost *Boost) error {
		return boost.machine.Advance(BoostEnteringPaymentRef)
	})
}

// BackToPlans returns to plan selection from the payment step.
func (service *Service) BackToPlans(id, userID string) (BoostView, error) {
	return service.boostStep(id, userID, func(boost *Boost) error {
		if err := boost.machine.Require(BoostEnteringPaymentRef); err != nil {
			return err
		}
		return boost.machine.Advance(BoostChoosingPlan)
	})
}

/*
SubmitBoost writes one pending boost request.

The transaction id must be non-empty. A failed insert is REMOTE_WRITE_ERROR and
the boost stays on the payment step.
*/
func (service *Service) SubmitBoost(ctx context.Context, id, userID, transactionID string) (BoostView, error) {
	return service.boostStep(id, userID, func(boost *Boost) error {
		if err := boost.machine.Require(BoostEnteringPaymentRef); err != nil {
			return err
		}

		reference := payment.Reference{Method: boost.method, TransactionID: transactionID}.Normalize()
		if err := reference.Validate(); err != nil {
			return err
		}

		request := &BoostRequest{
			ID:      uuid.New(),
			AdID:    boost.adID,
			UserID:  userID,
			Days:    boost.plan.Days,
			Price:   boost.plan.Price,
			Payment: reference,
			Status:  BoostStatusPending,
		}
		if err := service.store.InsertBoostRequest(ctx, request); err != nil {
			service.logger.ErrorContext(ctx, "boost_submit_failed",
				slog.String("ad_id", boost.adID),
				slog.Any("error", err),
			)
			return apperr.RemoteWrite("Error submitting request", err)
		}

		boost.request = request
		service.logger.InfoContext(ctx, "boost_submitted",
			slog.String("ad_id", boost.adID),
			slog.String("request_id", request.ID),
			slog.Int("days", request.Days),
		)
		return boost.machine.Advance(BoostSubmitted)
	})
}

// CancelBoost discards the boost.
func (service *Service) CancelBoost(id, userID string) {
	service.boosts.Remove(id, userID)
}

func (service *Service) boostStep(id, userID string, action func(boost *Boost) error) (BoostView, error) {
	var view BoostView
	err := service.boosts.With(id, userID, func(boost *Boost) error {
		actionErr := action(boost)
		view = boost.view(id)
		return actionErr
	})
	return view, err
}

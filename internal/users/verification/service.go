// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package verification

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/bazaari/bazaari/internal/payment"
	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/users/access"
	"github.com/bazaari/bazaari/internal/users/session"
	"github.com/bazaari/bazaari/internal/wizard"
	"github.com/bazaari/bazaari/pkg/uuid"
)

// Request fields, used in validation details.
const (
	FieldFullName   = "full_name"
	FieldNIDNumber  = "nid_number"
	FieldFrontImage = "front_image"
	FieldBackImage  = "back_image"
	FieldSide       = "side"
)

// Service drives upgrade flows for signed-in members.
type Service struct {
	flows       *wizard.Registry[*Flow]
	store       Store
	camera      Camera
	observer    wizard.Observer
	reviewDelay time.Duration
	logger      *slog.Logger
}

// NewService constructs a new [Service]. observer may be nil.
func NewService(flows *wizard.Registry[*Flow], store Store, camera Camera, observer wizard.Observer, reviewDelay time.Duration, logger *slog.Logger) *Service {
	return &Service{
		flows:       flows,
		store:       store,
		camera:      camera,
		observer:    observer,
		reviewDelay: reviewDelay,
		logger:      logger,
	}
}

/*
Start opens a new flow on the plan intro.

Only Normal members may start; Premium and Owner are already verified.
A previous flow of the same user is replaced and its camera released.
*/
func (service *Service) Start(principal *session.Principal) (View, error) {
	if !access.For(principal).CanStartPremiumUpgrade() {
		if principal == nil {
			return View{}, apperr.Unauthorized("Authentication required")
		}
		return View{}, apperr.Forbidden("Premium upgrade is only available to members")
	}

	flow := newFlow(service.observer, service.reviewDelay)
	id := service.flows.Start(principal.ID, flow)
	return flow.view(id), nil
}

// Get renders the flow.
func (service *Service) Get(id, owner string) (View, error) {
	return service.step(id, owner, func(*Flow) error { return nil })
}

// Begin leaves the plan intro for identity capture.
func (service *Service) Begin(id, owner string) (View, error) {
	return service.step(id, owner, func(flow *Flow) error {
		return flow.machine.Advance(StateCapturingIdentity)
	})
}

// Back returns to the plan intro. An open camera is released.
func (service *Service) Back(id, owner string) (View, error) {
	return service.step(id, owner, func(flow *Flow) error {
		if err := flow.machine.Advance(StatePlanIntro); err != nil {
			return err
		}
		flow.releaseCamera()
		return nil
	})
}

// # Identity Capture

/*
StartCapture opens the camera for one side of the card.

A denied camera is a RESOURCE_ERROR and the flow stays on the capture step.
Opening a side while another is open releases the other first.
*/
func (service *Service) StartCapture(ctx context.Context, id, owner string, side Side) (View, error) {
	return service.step(id, owner, func(flow *Flow) error {
		if err := flow.machine.Require(StateCapturingIdentity); err != nil {
			return err
		}
		if !side.IsValid() {
			return invalidSide()
		}

		flow.releaseCamera()

		scope, err := openScope(ctx, service.camera, side)
		if err != nil {
			service.logger.InfoContext(ctx, "verification_camera_unavailable", slog.Any("error", err))
			return apperr.Resource("Camera access denied.", err)
		}
		flow.scope = scope
		return nil
	})
}

// Capture takes a frame from the open camera, stores it on its side and
// releases the camera. A failed capture keeps the camera open for another try.
func (service *Service) Capture(ctx context.Context, id, owner string) (View, error) {
	return service.step(id, owner, func(flow *Flow) error {
		if err := flow.machine.Require(StateCapturingIdentity); err != nil {
			return err
		}
		if flow.scope == nil {
			return apperr.ValidationError("Open the camera before capturing",
				apperr.FieldError{Field: FieldSide, Message: "no camera open"})
		}

		frame, err := flow.scope.capture(ctx)
		if err != nil {
			if errors.Is(err, ErrNoFrame) {
				return apperr.ValidationError("No image received",
					apperr.FieldError{Field: string(flow.scope.side) + "_image", Message: "missing"})
			}
			return apperr.Resource("Camera capture failed.", err)
		}

		flow.setImage(flow.scope.side, frame)
		flow.releaseCamera()
		return nil
	})
}

// CancelCapture closes the camera without taking a picture.
func (service *Service) CancelCapture(id, owner string) (View, error) {
	return service.step(id, owner, func(flow *Flow) error {
		flow.releaseCamera()
		return nil
	})
}

// SetIdentity records the name and NID number as typed.
func (service *Service) SetIdentity(id, owner, fullName, nidNumber string) (View, error) {
	return service.step(id, owner, func(flow *Flow) error {
		if err := flow.machine.Require(StateCapturingIdentity); err != nil {
			return err
		}
		flow.fullName = strings.TrimSpace(fullName)
		flow.nidNumber = strings.TrimSpace(nidNumber)
		return nil
	})
}

// ProceedToPayment moves on once both fields and both images are present.
// Otherwise the flow does not move.
func (service *Service) ProceedToPayment(id, owner string) (View, error) {
	return service.step(id, owner, func(flow *Flow) error {
		if err := flow.machine.Require(StateCapturingIdentity); err != nil {
			return err
		}
		if err := flow.validateIdentity(); err != nil {
			return err
		}
		flow.releaseCamera()
		return flow.machine.Advance(StateAwaitingPaymentRef)
	})
}

// # Submission

/*
Submit records one pending verification request.

The user's role is not touched. A failed insert is REMOTE_WRITE_ERROR and the
flow stays on the payment step so the same reference can be resubmitted.
*/
func (service *Service) Submit(ctx context.Context, id, owner string, reference payment.Reference) (View, error) {
	return service.step(id, owner, func(flow *Flow) error {
		if err := flow.machine.Require(StateAwaitingPaymentRef); err != nil {
			return err
		}

		reference = reference.Normalize()
		if err := reference.Validate(); err != nil {
			return err
		}

		request := &Request{
			ID:         uuid.New(),
			UserID:     owner,
			FullName:   flow.fullName,
			NIDNumber:  flow.nidNumber,
			FrontImage: flow.front,
			BackImage:  flow.back,
			Payment:    reference,
			Amount:     PremiumPlan.Price,
			Status:     StatusPending,
		}
		if err := service.store.Insert(ctx, request); err != nil {
			service.logger.ErrorContext(ctx, "verification_submit_failed",
				slog.String("user_id", owner),
				slog.Any("error", err),
			)
			return apperr.RemoteWrite("Could not submit your verification. Please try again.", err)
		}

		service.logger.InfoContext(ctx, "verification_submitted",
			slog.String("user_id", owner),
			slog.String("request_id", request.ID),
			slog.String("method", string(reference.Method)),
		)
		return flow.machine.Advance(StateSubmitted)
	})
}

// Dismiss closes the wizard. Nothing is written and the camera is released.
func (service *Service) Dismiss(id, owner string) {
	service.flows.Remove(id, owner)
}

// Status returns the user's latest request.
func (service *Service) Status(ctx context.Context, userID string) (*Request, error) {
	return service.store.Latest(ctx, userID)
}

func (service *Service) step(id, owner string, action func(flow *Flow) error) (View, error) {
	var view View
	err := service.flows.With(id, owner, func(flow *Flow) error {
		actionErr := action(flow)
		view = flow.view(id)
		return actionErr
	})
	return view, err
}

// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package auth runs the one-time code wizard that signs users in and registers them.

Passwords and codes are checked by the hosted auth provider; this package only
sequences the steps and keeps the entered code between attempts.

# Flow

	collecting-credentials -> code-sent -> verifying -> signed-in
	                                          |
	                                          v
	                                   retry-verifying -> verifying

Login mode checks the password, then asks the provider to email a code. The
session is only handed out after that code verifies, in both modes.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/backend"
	"github.com/bazaari/bazaari/internal/platform/validate"
	"github.com/bazaari/bazaari/internal/users/session"
	"github.com/bazaari/bazaari/internal/wizard"
)

// # Contracts

// Provider is the subset of the hosted auth API used by the wizard.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*backend.User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error)
	SendOneTimeCode(ctx context.Context, email string) error
	VerifyOneTimeCode(ctx context.Context, email, code string, purpose backend.OTPPurpose) (*backend.Session, error)
	ResendOneTimeCode(ctx context.Context, email string, purpose backend.OTPPurpose) error
	SignOut(ctx context.Context, accessToken string) error
}

// Config holds the code shape and resend window.
type Config struct {
	CodeLength     int
	ResendCooldown time.Duration
}

// Service drives [Flow] instances stored in a registry.
type Service struct {
	provider  Provider
	publisher session.EventPublisher
	flows     *wizard.Registry[*Flow]
	clock     wizard.Clock
	observer  wizard.Observer
	config    Config
	logger    *slog.Logger
}

// NewService constructs a new [Service]. observer may be nil.
func NewService(
	provider Provider,
	publisher session.EventPublisher,
	flows *wizard.Registry[*Flow],
	clock wizard.Clock,
	observer wizard.Observer,
	config Config,
	logger *slog.Logger,
) *Service {
	return &Service{
		provider:  provider,
		publisher: publisher,
		flows:     flows,
		clock:     clock,
		observer:  observer,
		config:    config,
		logger:    logger,
	}
}

// CredentialsInput is the first step's form.
type CredentialsInput struct {
	Mode     Mode
	Email    string
	Password string
}

func (input CredentialsInput) normalize() CredentialsInput {
	input.Email = strings.TrimSpace(input.Email)
	return input
}

func (input CredentialsInput) validate() error {
	return (&validate.Validator{}).
		OneOf(FieldMode, string(input.Mode), string(ModeLogin), string(ModeRegister)).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLength).
		MaxLen(FieldPassword, input.Password, PasswordMaxLength).
		Err()
}

// # Credentials

/*
Start submits credentials and, when the provider accepts them, opens a new flow
waiting for the emailed code.

Returns:
  - View: the flow on code-sent, with the resend countdown running
  - error: validation failures, AUTH_ERROR for rejected credentials; no flow is kept
*/
func (service *Service) Start(ctx context.Context, input CredentialsInput) (View, error) {
	flow := newFlow(service.config.CodeLength, service.observer)
	if err := service.sendCode(ctx, flow, input); err != nil {
		return View{}, err
	}

	id := service.flows.Open(flow)
	return flow.View(id, service.clock.Now()), nil
}

// SubmitCredentials resubmits the form on a flow that went back to the first step.
func (service *Service) SubmitCredentials(ctx context.Context, id string, input CredentialsInput) (View, error) {
	return service.step(id, func(flow *Flow) error {
		if err := flow.machine.Require(StateCollectingCredentials); err != nil {
			return err
		}
		return service.sendCode(ctx, flow, input)
	})
}

// Back returns to the credentials form and clears the entered code.
func (service *Service) Back(id string) (View, error) {
	return service.step(id, func(flow *Flow) error {
		if err := flow.machine.Advance(StateCollectingCredentials); err != nil {
			return err
		}
		flow.clearCode()
		flow.lastError = ""
		return nil
	})
}

func (service *Service) sendCode(ctx context.Context, flow *Flow, input CredentialsInput) error {
	input = input.normalize()
	if err := input.validate(); err != nil {
		return err
	}

	var err error
	switch input.Mode {
	case ModeRegister:
		_, err = service.provider.SignUp(ctx, input.Email, input.Password)
	default:
		if _, err = service.provider.SignInWithPassword(ctx, input.Email, input.Password); err == nil {
			err = service.provider.SendOneTimeCode(ctx, input.Email)
		}
	}
	if err != nil {
		return service.rejected(ctx, "otp_credentials_rejected", err, "Invalid login credentials")
	}

	flow.mode = input.Mode
	flow.email = input.Email
	flow.lastError = ""
	flow.clearCode()
	flow.cooldown = wizard.NewCooldown(service.config.ResendCooldown, service.clock.Now())

	service.logger.InfoContext(ctx, "otp_code_sent", slog.String("mode", string(input.Mode)))
	return flow.machine.Advance(StateCodeSent)
}

// # Code Entry

// SetDigit writes one code position.
func (service *Service) SetDigit(id string, index int, value string) (View, error) {
	return service.step(id, func(flow *Flow) error {
		return flow.SetDigit(index, value)
	})
}

// SetCode replaces the whole code.
func (service *Service) SetCode(id string, code string) (View, error) {
	return service.step(id, func(flow *Flow) error {
		return flow.SetCode(code)
	})
}

// Get renders the flow.
func (service *Service) Get(id string) (View, error) {
	return service.step(id, func(*Flow) error { return nil })
}

/*
Verify submits the entered code.

An incomplete code is refused before any provider call. A rejected code moves
the flow to retry-verifying with the digits kept. On success the flow is
signed in, a sign-in event is published and the instance is discarded.

Returns:
  - View: signed-in view carrying the provider session
  - error: VALIDATION_ERROR for an incomplete code, AUTH_ERROR for a rejected one
*/
func (service *Service) Verify(ctx context.Context, id string) (View, error) {
	var verified *backend.Session

	view, err := service.step(id, func(flow *Flow) error {
		if err := flow.requireAwaitingCode(); err != nil {
			return err
		}
		if !flow.CanSubmit() {
			return apperr.ValidationError("Enter the complete security code",
				apperr.FieldError{Field: FieldCode, Message: "incomplete"})
		}

		if err := flow.machine.Advance(StateVerifying); err != nil {
			return err
		}

		result, err := service.provider.VerifyOneTimeCode(ctx, flow.email, flow.Code(), flow.mode.purpose())
		if err != nil {
			rejected := service.rejected(ctx, "otp_verification_failed", err, "Invalid security code. Please try again.")
			flow.lastError = "Invalid security code. Please try again."
			if appErr := apperr.As(rejected); appErr != nil {
				flow.lastError = appErr.Message
			}
			if advanceErr := flow.machine.Advance(StateRetryVerifying); advanceErr != nil {
				return advanceErr
			}
			return rejected
		}

		flow.session = result
		flow.lastError = ""
		verified = result
		return flow.machine.Advance(StateSignedIn)
	})
	if err != nil {
		return view, err
	}

	service.flows.Remove(id, id)
	service.publish(ctx, session.Event{
		Kind:      session.EventSignedIn,
		SubjectID: verified.User.ID,
		Session:   session.FromAccount(verified.User),
	})
	service.logger.InfoContext(ctx, "otp_signed_in", slog.String("user_id", verified.User.ID))

	return view, nil
}

// Resend asks for a fresh code once the cooldown has run out.
func (service *Service) Resend(ctx context.Context, id string) (View, error) {
	return service.step(id, func(flow *Flow) error {
		if err := flow.requireAwaitingCode(); err != nil {
			return err
		}

		now := service.clock.Now()
		if !flow.cooldown.Ready(now) {
			return apperr.RateLimited(flow.cooldown.Remaining(now))
		}

		if err := service.provider.ResendOneTimeCode(ctx, flow.email, flow.mode.purpose()); err != nil {
			return service.rejected(ctx, "otp_resend_failed", err, "Could not resend the security code")
		}

		flow.cooldown.Restart(now)
		flow.lastError = ""
		return nil
	})
}

// # Sign Out

// Logout revokes the provider session and announces the sign out.
// A token the provider already considers invalid is not an error.
func (service *Service) Logout(ctx context.Context, accessToken, subjectID string) error {
	if err := service.provider.SignOut(ctx, accessToken); err != nil && !backend.IsClientError(err) {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.publish(ctx, session.Event{Kind: session.EventSignedOut, SubjectID: subjectID})
	service.logger.InfoContext(ctx, "user_signed_out", slog.String("user_id", subjectID))
	return nil
}

// # Helpers

// step runs action on the flow and renders it afterwards, also on failure.
func (service *Service) step(id string, action func(flow *Flow) error) (View, error) {
	var view View
	err := service.flows.With(id, id, func(flow *Flow) error {
		actionErr := action(flow)
		view = flow.View(id, service.clock.Now())
		return actionErr
	})
	return view, err
}

// rejected maps a provider failure: 4xx answers become AUTH_ERROR, anything
// else is an upstream failure.
func (service *Service) rejected(ctx context.Context, event string, err error, fallback string) error {
	var backendErr *backend.Error
	if errors.As(err, &backendErr) && backend.IsClientError(err) {
		message := backendErr.Message
		if message == "" {
			message = fallback
		}
		service.logger.InfoContext(ctx, event, slog.String("reason", message))
		return apperr.Auth(message, err)
	}

	service.logger.ErrorContext(ctx, event, slog.Any("error", err))
	return fmt.Errorf("auth_provider_unavailable: %w", err)
}

func (service *Service) publish(ctx context.Context, event session.Event) {
	if service.publisher == nil {
		return
	}
	if err := service.publisher.Publish(ctx, event); err != nil {
		service.logger.WarnContext(ctx, "session_event_publish_failed",
			slog.String("kind", string(event.Kind)),
			slog.Any("error", err),
		)
	}
}

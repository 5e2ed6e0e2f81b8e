// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package auth

import (
	"strings"
	"time"

	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/backend"
	"github.com/bazaari/bazaari/internal/wizard"
)

// # States

// State is a step of the one-time code wizard.
type State string

const (
	StateCollectingCredentials State = "collecting-credentials"
	StateCodeSent              State = "code-sent"
	StateVerifying             State = "verifying"
	StateSignedIn              State = "signed-in"
	StateRetryVerifying        State = "retry-verifying"
)

// edges enumerates every legal transition. Going back to the credentials form
// is allowed from both code-entry states.
var edges = map[State][]State{
	StateCollectingCredentials: {StateCodeSent},
	StateCodeSent:              {StateVerifying, StateCollectingCredentials},
	StateVerifying:             {StateSignedIn, StateRetryVerifying},
	StateRetryVerifying:        {StateVerifying, StateCollectingCredentials},
}

// Mode selects between signing in and registering.
type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m == ModeLogin || m == ModeRegister
}

// purpose is the provider code type checked on verify and resend.
func (m Mode) purpose() backend.OTPPurpose {
	if m == ModeRegister {
		return backend.PurposeSignup
	}
	return backend.PurposeEmail
}

// # Flow

// Flow is one in-flight sign in or registration.
//
// Entered code positions survive a failed verification so the user can
// correct a single digit.
type Flow struct {
	machine   *wizard.Machine[State]
	mode      Mode
	email     string
	digits    []string
	cooldown  wizard.Cooldown
	lastError string
	session   *backend.Session
}

func newFlow(codeLength int, observer wizard.Observer) *Flow {
	return &Flow{
		machine: wizard.NewMachine(FlowName, StateCollectingCredentials, edges, observer),
		digits:  make([]string, codeLength),
	}
}

// awaitingCode reports whether code positions may be edited.
func (flow *Flow) awaitingCode() bool {
	return flow.machine.Is(StateCodeSent) || flow.machine.Is(StateRetryVerifying)
}

func (flow *Flow) requireAwaitingCode() error {
	if flow.awaitingCode() {
		return nil
	}
	return apperr.InvalidTransition(FlowName, string(flow.machine.State()), string(StateVerifying))
}

/*
SetDigit writes one code position.

Only the last character of value is kept, as a pasted or overtyped field
would. An empty value clears the position.
*/
func (flow *Flow) SetDigit(index int, value string) error {
	if err := flow.requireAwaitingCode(); err != nil {
		return err
	}
	if index < 0 || index >= len(flow.digits) {
		return apperr.ValidationError("Code position out of range",
			apperr.FieldError{Field: FieldIndex, Message: "out of range"})
	}

	if value == "" {
		flow.digits[index] = ""
		return nil
	}

	last := value[len(value)-1:]
	if last < "0" || last > "9" {
		return apperr.ValidationError("Code must be numeric",
			apperr.FieldError{Field: FieldDigit, Message: "must be a digit"})
	}
	flow.digits[index] = last
	return nil
}

// SetCode replaces every position from code. Missing trailing positions are cleared.
func (flow *Flow) SetCode(code string) error {
	if err := flow.requireAwaitingCode(); err != nil {
		return err
	}
	code = strings.TrimSpace(code)
	if len(code) > len(flow.digits) {
		return apperr.ValidationError("Code is too long",
			apperr.FieldError{Field: FieldCode, Message: "too long"})
	}
	for _, char := range code {
		if char < '0' || char > '9' {
			return apperr.ValidationError("Code must be numeric",
				apperr.FieldError{Field: FieldCode, Message: "must be numeric"})
		}
	}

	for i := range flow.digits {
		flow.digits[i] = ""
		if i < len(code) {
			flow.digits[i] = code[i : i+1]
		}
	}
	return nil
}

// CanSubmit is true only when every position is filled and a code is expected.
func (flow *Flow) CanSubmit() bool {
	if !flow.awaitingCode() {
		return false
	}
	for _, digit := range flow.digits {
		if digit == "" {
			return false
		}
	}
	return true
}

// Code joins the entered positions.
func (flow *Flow) Code() string {
	return strings.Join(flow.digits, "")
}

func (flow *Flow) clearCode() {
	for i := range flow.digits {
		flow.digits[i] = ""
	}
}

// # View

// View is the rendered state of a flow.
type View struct {
	ID        string           `json:"id"`
	State     State            `json:"state"`
	Mode      Mode             `json:"mode"`
	Email     string           `json:"email"`
	Code      []string         `json:"code"`
	CanSubmit bool             `json:"can_submit"`
	CanResend bool             `json:"can_resend"`
	ResendIn  int              `json:"resend_in"`
	Error     string           `json:"error,omitempty"`
	Session   *backend.Session `json:"session,omitempty"`
}

// View renders the flow at now. The resend countdown only shows while a code is expected.
func (flow *Flow) View(id string, now time.Time) View {
	view := View{
		ID:        id,
		State:     flow.machine.State(),
		Mode:      flow.mode,
		Email:     flow.email,
		Code:      append([]string(nil), flow.digits...),
		CanSubmit: flow.CanSubmit(),
		Error:     flow.lastError,
		Session:   flow.session,
	}
	if flow.awaitingCode() {
		view.ResendIn = flow.cooldown.Remaining(now)
		view.CanResend = view.ResendIn == 0
	}
	return view
}

// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package verification

import (
	"time"

	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/validate"
	"github.com/bazaari/bazaari/internal/wizard"
)

// Flow is one in-flight upgrade. At most one camera scope is open at a time.
type Flow struct {
	machine   *wizard.Machine[State]
	fullName  string
	nidNumber string
	front     []byte
	back      []byte
	scope     *captureScope

	reviewDelay time.Duration
}

func newFlow(observer wizard.Observer, reviewDelay time.Duration) *Flow {
	return &Flow{
		machine:     wizard.NewMachine(FlowName, StatePlanIntro, edges, observer),
		reviewDelay: reviewDelay,
	}
}

// releaseCamera closes the open scope, if any.
func (flow *Flow) releaseCamera() {
	if flow.scope != nil {
		flow.scope.close()
		flow.scope = nil
	}
}

// Abandon releases the camera when the instance is dismissed, replaced or evicted.
func (flow *Flow) Abandon() {
	flow.releaseCamera()
}

func (flow *Flow) setImage(side Side, frame []byte) {
	if side == SideFront {
		flow.front = frame
		return
	}
	flow.back = frame
}

// identityComplete reports whether both text fields and both images are present.
func (flow *Flow) identityComplete() bool {
	return flow.fullName != "" && flow.nidNumber != "" && len(flow.front) > 0 && len(flow.back) > 0
}

func (flow *Flow) validateIdentity() error {
	validator := &validate.Validator{}
	validator.Required(FieldFullName, flow.fullName).
		Required(FieldNIDNumber, flow.nidNumber).
		Custom(FieldNIDNumber, !isNumeric(flow.nidNumber), "must contain digits only").
		Custom(FieldFrontImage, len(flow.front) == 0, "capture the front of the card").
		Custom(FieldBackImage, len(flow.back) == 0, "capture the back of the card")
	return validator.Err()
}

func isNumeric(value string) bool {
	for _, char := range value {
		if char < '0' || char > '9' {
			return false
		}
	}
	return true
}

// # View

// View is the rendered state of a flow.
type View struct {
	ID                 string `json:"id"`
	State              State  `json:"state"`
	Plan               Plan   `json:"plan"`
	Capturing          Side   `json:"capturing,omitempty"`
	FullName           string `json:"full_name"`
	NIDNumber          string `json:"nid_number"`
	HasFront           bool   `json:"has_front"`
	HasBack            bool   `json:"has_back"`
	CanProceed         bool   `json:"can_proceed"`
	ReviewDelaySeconds int64  `json:"review_delay_seconds,omitempty"`
}

func (flow *Flow) view(id string) View {
	view := View{
		ID:         id,
		State:      flow.machine.State(),
		Plan:       PremiumPlan,
		FullName:   flow.fullName,
		NIDNumber:  flow.nidNumber,
		HasFront:   len(flow.front) > 0,
		HasBack:    len(flow.back) > 0,
		CanProceed: flow.machine.Is(StateCapturingIdentity) && flow.identityComplete(),
	}
	if flow.scope != nil {
		view.Capturing = flow.scope.side
	}
	if flow.machine.Is(StateSubmitted) {
		view.ReviewDelaySeconds = int64(flow.reviewDelay / time.Second)
	}
	return view
}

func invalidSide() error {
	return apperr.ValidationError("Unknown document side",
		apperr.FieldError{Field: FieldSide, Message: "must be front or back"})
}

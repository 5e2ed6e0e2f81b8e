// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package ad

import (
	"time"

	"github.com/bazaari/bazaari/internal/payment"
	"github.com/bazaari/bazaari/internal/wizard"
	"github.com/bazaari/bazaari/pkg/slice"
)

// # Boost Plans

// Plan is a paid boost duration.
type Plan struct {
	Days  int   `json:"days"`
	Price int64 `json:"price"`
}

// Plans lists the boost offers in display order.
var Plans = []Plan{
	{Days: 3, Price: 150},
	{Days: 7, Price: 299},
	{Days: 15, Price: 550},
}

// DefaultPlanDays is pre-selected when the wizard opens.
const DefaultPlanDays = 7

// PlanFor returns the plan lasting days.
func PlanFor(days int) (Plan, bool) {
	return slice.Find(Plans, func(plan Plan) bool { return plan.Days == days })
}

// # Boost Wizard

// BoostState is a step of the boost wizard.
type BoostState string

const (
	BoostChoosingPlan       BoostState = "choosing-plan"
	BoostEnteringPaymentRef BoostState = "entering-payment-ref"
	BoostSubmitted          BoostState = "submitted-pending-review"
)

var boostEdges = map[BoostState][]BoostState{
	BoostChoosingPlan:       {BoostEnteringPaymentRef},
	BoostEnteringPaymentRef: {BoostSubmitted, BoostChoosingPlan},
}

// BoostFlowName labels boost transitions in metrics.
const BoostFlowName = "ad_boost"

// Field identifiers for boost validation.
const (
	FieldDays   = "days"
	FieldMethod = "method"
)

// BoostRequest is the pending claim written on submit.
type BoostRequest struct {
	ID        string            `json:"id"`
	AdID      string            `json:"ad_id"`
	UserID    string            `json:"user_id"`
	Days      int               `json:"days"`
	Price     int64             `json:"price"`
	Payment   payment.Reference `json:"payment"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// BoostStatusPending is the status of every newly submitted request.
const BoostStatusPending = "Pending"

// Boost is one in-flight boost wizard.
type Boost struct {
	machine *wizard.Machine[BoostState]
	adID    string
	title   string
	plan    Plan
	method  payment.Method
	request *BoostRequest
	delay   time.Duration
}

// BoostView is the rendered state of a boost.
type BoostView struct {
	ID                 string           `json:"id"`
	State              BoostState       `json:"state"`
	AdID               string           `json:"ad_id"`
	AdTitle            string           `json:"ad_title"`
	Plan               Plan             `json:"plan"`
	Plans              []Plan           `json:"plans"`
	Method             payment.Method   `json:"method"`
	Methods            []payment.Method `json:"methods"`
	Request            *BoostRequest    `json:"request,omitempty"`
	ReviewDelaySeconds int64            `json:"review_delay_seconds,omitempty"`
}

func (boost *Boost) view(id string) BoostView {
	view := BoostView{
		ID:      id,
		State:   boost.machine.State(),
		AdID:    boost.adID,
		AdTitle: boost.title,
		Plan:    boost.plan,
		Plans:   Plans,
		Method:  boost.method,
		Methods: payment.Methods,
		Request: boost.request,
	}
	if boost.machine.Is(BoostSubmitted) {
		view.ReviewDelaySeconds = int64(boost.delay / time.Second)
	}
	return view
}

// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package verification runs the NID check that upgrades a member to Premium.

The wizard only collects and submits. Moderators approve requests out of band;
the session resolver picks up the stored role once the user's slot goes stale.

	plan-intro -> capturing-identity -> awaiting-payment-ref -> submitted-pending-review
*/
package verification

import (
	"context"
	"time"

	"github.com/bazaari/bazaari/internal/payment"
)

// State is a step of the upgrade wizard.
type State string

const (
	StatePlanIntro          State = "plan-intro"
	StateCapturingIdentity  State = "capturing-identity"
	StateAwaitingPaymentRef State = "awaiting-payment-ref"
	StateSubmitted          State = "submitted-pending-review"
)

var edges = map[State][]State{
	StatePlanIntro:          {StateCapturingIdentity},
	StateCapturingIdentity:  {StateAwaitingPaymentRef, StatePlanIntro},
	StateAwaitingPaymentRef: {StateSubmitted},
}

// FlowName labels upgrade transitions in metrics.
const FlowName = "premium_upgrade"

// Side is one face of the identity document.
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

// IsValid reports whether s is front or back.
func (s Side) IsValid() bool {
	return s == SideFront || s == SideBack
}

// Plan is the one-off Premium offer.
type Plan struct {
	Price         int64  `json:"price"`
	OriginalPrice int64  `json:"original_price"`
	Label         string `json:"label"`
}

// PremiumPlan is the lifetime verification offer.
var PremiumPlan = Plan{Price: 299, OriginalPrice: 400, Label: "Lifetime Verification"}

// StatusPending is the only status this package writes.
const StatusPending = "Pending"

// Request is a submitted verification awaiting moderation.
type Request struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	FullName   string            `json:"full_name"`
	NIDNumber  string            `json:"nid_number"`
	FrontImage []byte            `json:"-"`
	BackImage  []byte            `json:"-"`
	Payment    payment.Reference `json:"payment"`
	Amount     int64             `json:"amount"`
	Status     string            `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Store persists verification requests.
type Store interface {
	Insert(ctx context.Context, request *Request) error

	// Latest returns the user's most recent request, NOT_FOUND when none exists.
	Latest(ctx context.Context, userID string) (*Request, error)
}

// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package wallet runs manual mobile-money top-ups and lists transaction history.

A deposit is a claim: the user sends money out of band and reports the
provider's transaction id. Submitting writes one Pending transaction; the
balance changes only when a moderator completes it.

	entering-amount -> entering-payment-ref -> submitted-pending-review
*/
package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/bazaari/bazaari/internal/payment"
	"github.com/bazaari/bazaari/pkg/pagination"
)

// # Transactions

// Type classifies a wallet movement.
type Type string

const (
	TypeDeposit Type = "Deposit"
	TypeSpent   Type = "Spent"
	TypeRefund  Type = "Refund"
)

// Status is the moderation state of a transaction.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

// Transaction is one wallet movement.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Amount      int64     `json:"amount"`
	Type        Type      `json:"type"`
	Description string    `json:"description"`
	PaymentRef  string    `json:"payment_ref,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// depositDescription is the history line for a deposit.
func depositDescription(method payment.Method) string {
	return fmt.Sprintf("Deposit via %s", method)
}

// Store persists wallet transactions.
type Store interface {
	Insert(ctx context.Context, transaction *Transaction) error

	// ListByUser returns the user's transactions, newest first, and the total count.
	ListByUser(ctx context.Context, userID string, page pagination.Params) ([]*Transaction, int, error)
}

// # Wizard States

// State is a step of the deposit wizard.
type State string

const (
	StateEnteringAmount     State = "entering-amount"
	StateEnteringPaymentRef State = "entering-payment-ref"
	StateSubmitted          State = "submitted-pending-review"
)

var edges = map[State][]State{
	StateEnteringAmount:     {StateEnteringPaymentRef},
	StateEnteringPaymentRef: {StateSubmitted},
}

// FlowName labels deposit transitions in metrics.
const FlowName = "wallet_deposit"

// FieldAmount names the amount in validation details.
const FieldAmount = "amount"

// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package wallet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bazaari/bazaari/internal/payment"
	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/validate"
	"github.com/bazaari/bazaari/internal/wizard"
	"github.com/bazaari/bazaari/pkg/pagination"
	"github.com/bazaari/bazaari/pkg/uuid"
)

// Deposit is one in-flight top-up.
type Deposit struct {
	machine *wizard.Machine[State]
	amount  int64
	method  payment.Method
	record  *Transaction
}

// View is the rendered state of a deposit.
type View struct {
	ID          string           `json:"id"`
	State       State            `json:"state"`
	Amount      int64            `json:"amount"`
	Method      payment.Method   `json:"method"`
	Methods     []payment.Method `json:"methods"`
	Transaction *Transaction     `json:"transaction,omitempty"`
}

func (deposit *Deposit) view(id string) View {
	return View{
		ID:          id,
		State:       deposit.machine.State(),
		Amount:      deposit.amount,
		Method:      deposit.method,
		Methods:     payment.Methods,
		Transaction: deposit.record,
	}
}

// Service drives deposits and reads history.
type Service struct {
	deposits *wizard.Registry[*Deposit]
	store    Store
	observer wizard.Observer
	logger   *slog.Logger
}

// NewService constructs a new [Service]. observer may be nil.
func NewService(deposits *wizard.Registry[*Deposit], store Store, observer wizard.Observer, logger *slog.Logger) *Service {
	return &Service{deposits: deposits, store: store, observer: observer, logger: logger}
}

// Start opens a deposit for userID, replacing any unfinished one.
func (service *Service) Start(userID string) View {
	deposit := &Deposit{
		machine: wizard.NewMachine(FlowName, StateEnteringAmount, edges, service.observer),
		method:  payment.DefaultMethod,
	}
	id := service.deposits.Start(userID, deposit)
	return deposit.view(id)
}

// Get renders the deposit.
func (service *Service) Get(id, userID string) (View, error) {
	return service.step(id, userID, func(*Deposit) error { return nil })
}

// SetAmount records the amount. It must be a positive whole number.
func (service *Service) SetAmount(id, userID string, amount int64) (View, error) {
	return service.step(id, userID, func(deposit *Deposit) error {
		if err := deposit.machine.Require(StateEnteringAmount); err != nil {
			return err
		}
		if err := (&validate.Validator{}).Positive(FieldAmount, amount).Err(); err != nil {
			return err
		}
		deposit.amount = amount
		return nil
	})
}

// Next moves to the payment reference step once an amount is set.
func (service *Service) Next(id, userID string) (View, error) {
	return service.step(id, userID, func(deposit *Deposit) error {
		if err := deposit.machine.Require(StateEnteringAmount); err != nil {
			return err
		}
		if err := (&validate.Validator{}).Positive(FieldAmount, deposit.amount).Err(); err != nil {
			return err
		}
		return deposit.machine.Advance(StateEnteringPaymentRef)
	})
}

/*
Submit writes exactly one Pending Deposit transaction and finishes the wizard.

A failed insert is REMOTE_WRITE_ERROR: nothing was written and the deposit
stays on the payment reference step.
*/
func (service *Service) Submit(ctx context.Context, id, userID string, reference payment.Reference) (View, error) {
	return service.step(id, userID, func(deposit *Deposit) error {
		if err := deposit.machine.Require(StateEnteringPaymentRef); err != nil {
			return err
		}

		reference = reference.Normalize()
		if err := reference.Validate(); err != nil {
			return err
		}
		deposit.method = reference.Method

		record := &Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			Amount:      deposit.amount,
			Type:        TypeDeposit,
			Description: depositDescription(reference.Method),
			PaymentRef:  reference.TransactionID,
			Status:      StatusPending,
		}
		if err := service.store.Insert(ctx, record); err != nil {
			service.logger.ErrorContext(ctx, "deposit_submit_failed",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
			return apperr.RemoteWrite("Error submitting request", err)
		}

		deposit.record = record
		service.logger.InfoContext(ctx, "deposit_submitted",
			slog.String("user_id", userID),
			slog.String("transaction_id", record.ID),
			slog.Int64("amount", record.Amount),
		)
		return deposit.machine.Advance(StateSubmitted)
	})
}

// Cancel discards the deposit. Nothing has been written before submit.
func (service *Service) Cancel(id, userID string) {
	service.deposits.Remove(id, userID)
}

// History lists the user's transactions, newest first.
func (service *Service) History(ctx context.Context, userID string, page pagination.Params) ([]*Transaction, int, error) {
	transactions, total, err := service.store.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("wallet_service_history_failed: %w", err)
	}
	return transactions, total, nil
}

func (service *Service) step(id, userID string, action func(deposit *Deposit) error) (View, error) {
	var view View
	err := service.deposits.With(id, userID, func(deposit *Deposit) error {
		actionErr := action(deposit)
		view = deposit.view(id)
		return actionErr
	})
	return view, err
}

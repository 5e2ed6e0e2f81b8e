// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package wallet_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaari/bazaari/internal/payment"
	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/wallet"
	"github.com/bazaari/bazaari/internal/wizard"
	"github.com/bazaari/bazaari/pkg/pagination"
)

type memoryStore struct {
	mu           sync.Mutex
	transactions []wallet.Transaction
	err          error
}

func (store *memoryStore) Insert(_ context.Context, transaction *wallet.Transaction) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.err != nil {
		return store.err
	}
	store.transactions = append(store.transactions, *transaction)
	return nil
}

func (store *memoryStore) ListByUser(_ context.Context, userID string, _ pagination.Params) ([]*wallet.Transaction, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.err != nil {
		return nil, 0, store.err
	}

	var out []*wallet.Transaction
	for i := len(store.transactions) - 1; i >= 0; i-- {
		if store.transactions[i].UserID == userID {
			transaction := store.transactions[i]
			out = append(out, &transaction)
		}
	}
	return out, len(out), nil
}

func newService() (*wallet.Service, *memoryStore) {
	store := &memoryStore{}
	deposits := wizard.NewRegistry[*wallet.Deposit]("wallet_deposit", wizard.SystemClock{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return wallet.NewService(deposits, store, nil, logger), store
}

/*
TestDeposit_AmountRequired verifies the wizard does not leave the amount step without a positive amount.
*/
func TestDeposit_AmountRequired(t *testing.T) {
	service, _ := newService()
	view := service.Start("u1")
	assert.Equal(t, wallet.StateEnteringAmount, view.State)
	assert.Equal(t, payment.MethodBKash, view.Method)

	view, err := service.Next(view.ID, "u1")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Equal(t, wallet.StateEnteringAmount, view.State)

	for _, amount := range []int64{0, -50} {
		_, err = service.SetAmount(view.ID, "u1", amount)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	}

	_, err = service.SetAmount(view.ID, "u1", 500)
	require.NoError(t, err)
	view, err = service.Next(view.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, wallet.StateEnteringPaymentRef, view.State)
	assert.Equal(t, int64(500), view.Amount)
}

/*
TestDeposit_Submit verifies exactly one Pending Deposit is written on success and none on failure.
*/
func TestDeposit_Submit(t *testing.T) {
	service, store := newService()
	ctx := context.Background()

	view := service.Start("u1")
	_, err := service.SetAmount(view.ID, "u1", 500)
	require.NoError(t, err)
	_, err = service.Next(view.ID, "u1")
	require.NoError(t, err)

	// Missing transaction id
	view, err = service.Submit(ctx, view.ID, "u1", payment.Reference{Method: payment.MethodBKash, TransactionID: " "})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Empty(t, store.transactions)

	// Remote failure
	store.err = errors.New("connection refused")
	view, err = service.Submit(ctx, view.ID, "u1", payment.Reference{Method: payment.MethodBKash, TransactionID: "TX1"})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeRemoteWrite))
	assert.Equal(t, "Error submitting request", err.Error())
	assert.Equal(t, wallet.StateEnteringPaymentRef, view.State)
	assert.Empty(t, store.transactions)

	// Retry
	store.err = nil
	view, err = service.Submit(ctx, view.ID, "u1", payment.Reference{Method: payment.MethodBKash, TransactionID: "TX1"})
	require.NoError(t, err)
	assert.Equal(t, wallet.StateSubmitted, view.State)
	require.NotNil(t, view.Transaction)

	require.Len(t, store.transactions, 1)
	stored := store.transactions[0]
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, int64(500), stored.Amount)
	assert.Equal(t, wallet.TypeDeposit, stored.Type)
	assert.Equal(t, wallet.StatusPending, stored.Status)
	assert.Equal(t, "Deposit via bKash", stored.Description)
	assert.Equal(t, "TX1", stored.PaymentRef)

	// A second submit on a finished deposit writes nothing.
	_, err = service.Submit(ctx, view.ID, "u1", payment.Reference{Method: payment.MethodBKash, TransactionID: "TX1"})
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidTransition))
	assert.Len(t, store.transactions, 1)
}

/*
TestDeposit_Ownership verifies another user cannot drive the deposit.
*/
func TestDeposit_Ownership(t *testing.T) {
	service, _ := newService()
	view := service.Start("u1")

	_, err := service.SetAmount(view.ID, "u2", 100)
	assert.True(t, apperr.IsNotFound(err))

	service.Cancel(view.ID, "u1")
	_, err = service.Get(view.ID, "u1")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestHistory verifies transactions are listed newest first and store failures are wrapped.
*/
func TestHistory(t *testing.T) {
	service, store := newService()
	store.transactions = []wallet.Transaction{
		{ID: "t1", UserID: "u1", Amount: 100, Type: wallet.TypeDeposit, Status: wallet.StatusCompleted},
		{ID: "t2", UserID: "u2", Amount: 50, Type: wallet.TypeSpent, Status: wallet.StatusCompleted},
		{ID: "t3", UserID: "u1", Amount: 30, Type: wallet.TypeSpent, Status: wallet.StatusCompleted},
	}

	transactions, total, err := service.History(context.Background(), "u1", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, transactions, 2)
	assert.Equal(t, "t3", transactions[0].ID)

	store.err = errors.New("down")
	_, _, err = service.History(context.Background(), "u1", pagination.Params{Page: 1, Limit: 20})
	assert.ErrorContains(t, err, "wallet_service_history_failed")
}

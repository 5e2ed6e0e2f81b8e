// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package verification_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaari/bazaari/internal/payment"
	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/sec"
	"github.com/bazaari/bazaari/internal/users/session"
	"github.com/bazaari/bazaari/internal/users/verification"
	"github.com/bazaari/bazaari/internal/wizard"
)

var (
	member  = &session.Principal{ID: "u1", Role: sec.RoleNormal}
	frontJP = []byte("\xff\xd8\xff\xe0front")
	backJP  = []byte("\xff\xd8\xff\xe0back")
)

type memoryStore struct {
	mu       sync.Mutex
	requests []verification.Request
	err      error
}

func (store *memoryStore) Insert(_ context.Context, request *verification.Request) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.err != nil {
		return store.err
	}
	store.requests = append(store.requests, *request)
	return nil
}

func (store *memoryStore) Latest(_ context.Context, userID string) (*verification.Request, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	for i := len(store.requests) - 1; i >= 0; i-- {
		if store.requests[i].UserID == userID {
			latest := store.requests[i]
			return &latest, nil
		}
	}
	return nil, apperr.NotFound("Verification request")
}

type fixture struct {
	service *verification.Service
	store   *memoryStore
	camera  *verification.UploadCamera
	flows   *wizard.Registry[*verification.Flow]
}

func newFixture() *fixture {
	store := &memoryStore{}
	camera := verification.NewUploadCamera()
	flows := wizard.NewRegistry[*verification.Flow]("premium_upgrade", wizard.SystemClock{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service: verification.NewService(flows, store, camera, nil, 2*time.Hour, logger),
		store:   store,
		camera:  camera,
		flows:   flows,
	}
}

// begin opens a flow already on the capture step.
func (f *fixture) begin(t *testing.T) string {
	t.Helper()
	view, err := f.service.Start(member)
	require.NoError(t, err)
	_, err = f.service.Begin(view.ID, member.ID)
	require.NoError(t, err)
	return view.ID
}

func (f *fixture) capture(t *testing.T, id string, side verification.Side, frame []byte) verification.View {
	t.Helper()
	_, err := f.service.StartCapture(context.Background(), id, member.ID, side)
	require.NoError(t, err)
	view, err := f.service.Capture(verification.WithFrame(context.Background(), frame), id, member.ID)
	require.NoError(t, err)
	return view
}

/*
TestStart_Gate verifies only Normal members can open the wizard.
*/
func TestStart_Gate(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name      string
		principal *session.Principal
		code      string
	}{
		{"anonymous", nil, apperr.CodeUnauthorized},
		{"premium", &session.Principal{ID: "p", Role: sec.RolePremium}, apperr.CodeForbidden},
		{"owner", &session.Principal{ID: "o", Role: sec.RoleOwner}, apperr.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Start(tt.principal)
			assert.True(t, apperr.HasCode(err, tt.code))
		})
	}

	view, err := f.service.Start(member)
	require.NoError(t, err)
	assert.Equal(t, verification.StatePlanIntro, view.State)
	assert.Equal(t, int64(299), view.Plan.Price)
	assert.Equal(t, int64(400), view.Plan.OriginalPrice)
}

/*
TestCamera_ReleasedOnEveryExit verifies no handle survives capture, cancel, dismiss or replacement.
*/
func TestCamera_ReleasedOnEveryExit(t *testing.T) {
	t.Run("capture", func(t *testing.T) {
		f := newFixture()
		id := f.begin(t)

		view := f.capture(t, id, verification.SideFront, frontJP)
		assert.True(t, view.HasFront)
		assert.Empty(t, view.Capturing)
		assert.Equal(t, 0, f.camera.Live())
	})

	t.Run("cancel", func(t *testing.T) {
		f := newFixture()
		id := f.begin(t)

		view, err := f.service.StartCapture(context.Background(), id, member.ID, verification.SideBack)
		require.NoError(t, err)
		assert.Equal(t, verification.SideBack, view.Capturing)
		assert.Equal(t, 1, f.camera.Live())

		_, err = f.service.CancelCapture(id, member.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, f.camera.Live())
	})

	t.Run("dismiss", func(t *testing.T) {
		f := newFixture()
		id := f.begin(t)
		_, err := f.service.StartCapture(context.Background(), id, member.ID, verification.SideFront)
		require.NoError(t, err)

		f.service.Dismiss(id, member.ID)
		assert.Equal(t, 0, f.camera.Live())
		assert.Equal(t, 0, f.flows.Len())
	})

	t.Run("switch_side", func(t *testing.T) {
		f := newFixture()
		id := f.begin(t)
		_, err := f.service.StartCapture(context.Background(), id, member.ID, verification.SideFront)
		require.NoError(t, err)
		_, err = f.service.StartCapture(context.Background(), id, member.ID, verification.SideBack)
		require.NoError(t, err)
		assert.Equal(t, 1, f.camera.Live())
	})

	t.Run("replaced_by_new_start", func(t *testing.T) {
		f := newFixture()
		id := f.begin(t)
		_, err := f.service.StartCapture(context.Background(), id, member.ID, verification.SideFront)
		require.NoError(t, err)

		_, err = f.service.Start(member)
		require.NoError(t, err)
		assert.Equal(t, 0, f.camera.Live())
	})

	t.Run("failed_capture_keeps_camera", func(t *testing.T) {
		f := newFixture()
		id := f.begin(t)
		_, err := f.service.StartCapture(context.Background(), id, member.ID, verification.SideFront)
		require.NoError(t, err)

		_, err = f.service.Capture(context.Background(), id, member.ID)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		assert.Equal(t, 1, f.camera.Live())
	})
}

/*
TestCamera_Denied verifies a refused camera is a resource error and the flow stays put.
*/
func TestCamera_Denied(t *testing.T) {
	f := newFixture()
	id := f.begin(t)

	view, err := f.service.StartCapture(verification.WithPermissionDenied(context.Background()), id, member.ID, verification.SideFront)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeResource))
	assert.Equal(t, "Camera access denied.", err.Error())
	assert.Equal(t, verification.StateCapturingIdentity, view.State)
	assert.Empty(t, view.Capturing)
	assert.Equal(t, 0, f.camera.Live())
}

/*
TestProceedToPayment verifies all four identity inputs are required.
*/
func TestProceedToPayment(t *testing.T) {
	tests := []struct {
		name      string
		fullName  string
		nidNumber string
		front     bool
		back      bool
		advances  bool
	}{
		{"missing_back", "Rahim Uddin", "1990123456", true, false, false},
		{"missing_front", "Rahim Uddin", "1990123456", false, true, false},
		{"missing_name", "", "1990123456", true, true, false},
		{"missing_number", "Rahim Uddin", "", true, true, false},
		{"non_numeric_number", "Rahim Uddin", "19A0", true, true, false},
		{"complete", "Rahim Uddin", "1990123456", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			id := f.begin(t)

			if tt.front {
				f.capture(t, id, verification.SideFront, frontJP)
			}
			if tt.back {
				f.capture(t, id, verification.SideBack, backJP)
			}
			_, err := f.service.SetIdentity(id, member.ID, tt.fullName, tt.nidNumber)
			require.NoError(t, err)

			view, err := f.service.ProceedToPayment(id, member.ID)
			if tt.advances {
				require.NoError(t, err)
				assert.Equal(t, verification.StateAwaitingPaymentRef, view.State)
				return
			}
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
			assert.Equal(t, verification.StateCapturingIdentity, view.State)
		})
	}
}

/*
TestSubmit verifies the request is written once, with no role change, and failures stay on the payment step.
*/
func TestSubmit(t *testing.T) {
	f := newFixture()
	id := f.begin(t)
	f.capture(t, id, verification.SideFront, frontJP)
	f.capture(t, id, verification.SideBack, backJP)
	_, err := f.service.SetIdentity(id, member.ID, " Rahim Uddin ", "1990123456")
	require.NoError(t, err)
	_, err = f.service.ProceedToPayment(id, member.ID)
	require.NoError(t, err)

	// Missing reference
	_, err = f.service.Submit(context.Background(), id, member.ID, payment.Reference{Method: payment.MethodBKash})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	// Remote failure
	f.store.err = errors.New("connection reset")
	view, err := f.service.Submit(context.Background(), id, member.ID,
		payment.Reference{Method: payment.MethodNagad, TransactionID: "TRX9A"})
	assert.True(t, apperr.HasCode(err, apperr.CodeRemoteWrite))
	assert.Equal(t, verification.StateAwaitingPaymentRef, view.State)
	assert.Empty(t, f.store.requests)

	// Retry succeeds
	f.store.err = nil
	view, err = f.service.Submit(context.Background(), id, member.ID,
		payment.Reference{Method: payment.MethodNagad, TransactionID: " TRX9A "})
	require.NoError(t, err)
	assert.Equal(t, verification.StateSubmitted, view.State)
	assert.Equal(t, int64(7200), view.ReviewDelaySeconds)
	assert.Equal(t, sec.RoleNormal, member.Role)

	require.Len(t, f.store.requests, 1)
	stored := f.store.requests[0]
	assert.Equal(t, "Rahim Uddin", stored.FullName)
	assert.Equal(t, "TRX9A", stored.Payment.TransactionID)
	assert.Equal(t, int64(299), stored.Amount)
	assert.Equal(t, verification.StatusPending, stored.Status)
	assert.Equal(t, frontJP, stored.FrontImage)

	// Terminal
	_, err = f.service.Begin(id, member.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidTransition))

	latest, err := f.service.Status(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, latest.ID)
}

// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/backend"
	"github.com/bazaari/bazaari/internal/users/auth"
	"github.com/bazaari/bazaari/internal/users/session"
	"github.com/bazaari/bazaari/internal/wizard"
)

const (
	validEmail    = "rahim@example.com"
	validPassword = "secret-pass"
	validCode     = "12345678"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *manualClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *manualClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(d)
}

type fakeProvider struct {
	signUpErr  error
	signInErr  error
	verifyErr  error
	resendErr  error
	signOutErr error

	verifyCalls []string
	purposes    []backend.OTPPurpose
	sentCodes   int
	resends     int
	signedOut   []string
}

func (provider *fakeProvider) SignUp(_ context.Context, email, _ string) (*backend.User, error) {
	if provider.signUpErr != nil {
		return nil, provider.signUpErr
	}
	return &backend.User{ID: "u1", Email: email}, nil
}

func (provider *fakeProvider) SignInWithPassword(_ context.Context, email, _ string) (*backend.Session, error) {
	if provider.signInErr != nil {
		return nil, provider.signInErr
	}
	return &backend.Session{AccessToken: "password-token", User: backend.User{ID: "u1", Email: email}}, nil
}

func (provider *fakeProvider) SendOneTimeCode(context.Context, string) error {
	provider.sentCodes++
	return nil
}

func (provider *fakeProvider) VerifyOneTimeCode(_ context.Context, email, code string, purpose backend.OTPPurpose) (*backend.Session, error) {
	provider.verifyCalls = append(provider.verifyCalls, code)
	provider.purposes = append(provider.purposes, purpose)
	if provider.verifyErr != nil {
		return nil, provider.verifyErr
	}
	return &backend.Session{AccessToken: "otp-token", User: backend.User{ID: "u1", Email: email}}, nil
}

func (provider *fakeProvider) ResendOneTimeCode(context.Context, string, backend.OTPPurpose) error {
	if provider.resendErr != nil {
		return provider.resendErr
	}
	provider.resends++
	return nil
}

func (provider *fakeProvider) SignOut(_ context.Context, token string) error {
	provider.signedOut = append(provider.signedOut, token)
	return provider.signOutErr
}

type recordingPublisher struct {
	events []session.Event
}

func (publisher *recordingPublisher) Publish(_ context.Context, event session.Event) error {
	publisher.events = append(publisher.events, event)
	return nil
}

type fixture struct {
	service   *auth.Service
	provider  *fakeProvider
	publisher *recordingPublisher
	clock     *manualClock
	flows     *wizard.Registry[*auth.Flow]
}

func newFixture() *fixture {
	clock := &manualClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	provider := &fakeProvider{}
	publisher := &recordingPublisher{}
	flows := wizard.NewRegistry[*auth.Flow]("otp", clock)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := auth.NewService(provider, publisher, flows, clock, nil,
		auth.Config{CodeLength: 8, ResendCooldown: 60 * time.Second}, logger)

	return &fixture{service: service, provider: provider, publisher: publisher, clock: clock, flows: flows}
}

func (f *fixture) start(t *testing.T, mode auth.Mode) auth.View {
	t.Helper()
	view, err := f.service.Start(context.Background(), auth.CredentialsInput{Mode: mode, Email: validEmail, Password: validPassword})
	require.NoError(t, err)
	return view
}

/*
TestStart verifies credentials open a flow waiting for the code.
*/
func TestStart(t *testing.T) {
	t.Run("login_sends_code", func(t *testing.T) {
		f := newFixture()
		view := f.start(t, auth.ModeLogin)

		assert.Equal(t, auth.StateCodeSent, view.State)
		assert.Len(t, view.Code, 8)
		assert.False(t, view.CanSubmit)
		assert.False(t, view.CanResend)
		assert.Equal(t, 60, view.ResendIn)
		assert.Nil(t, view.Session)
		assert.Equal(t, 1, f.provider.sentCodes)
	})

	t.Run("rejected_credentials_keep_no_flow", func(t *testing.T) {
		f := newFixture()
		f.provider.signInErr = &backend.Error{Status: http.StatusBadRequest, Code: "invalid_grant", Message: "Invalid login credentials"}

		_, err := f.service.Start(context.Background(), auth.CredentialsInput{Mode: auth.ModeLogin, Email: validEmail, Password: validPassword})
		assert.True(t, apperr.HasCode(err, apperr.CodeAuth))
		assert.Equal(t, 0, f.flows.Len())
	})

	t.Run("duplicate_registration", func(t *testing.T) {
		f := newFixture()
		f.provider.signUpErr = &backend.Error{Status: http.StatusUnprocessableEntity, Message: "User already registered"}

		_, err := f.service.Start(context.Background(), auth.CredentialsInput{Mode: auth.ModeRegister, Email: validEmail, Password: validPassword})
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeAuth))
		assert.Equal(t, "User already registered", err.Error())
	})

	t.Run("invalid_input", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.Start(context.Background(), auth.CredentialsInput{Mode: "guest", Email: "nope", Password: "1"})
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})
}

/*
TestVerify_IncompleteCode verifies no provider call is made with an empty position.
*/
func TestVerify_IncompleteCode(t *testing.T) {
	f := newFixture()
	view := f.start(t, auth.ModeRegister)

	_, err := f.service.SetCode(view.ID, "1234567")
	require.NoError(t, err)

	view, err = f.service.Verify(context.Background(), view.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Empty(t, f.provider.verifyCalls)
	assert.Equal(t, auth.StateCodeSent, view.State)

	// A hole in the middle is just as incomplete
	_, err = f.service.SetCode(view.ID, validCode)
	require.NoError(t, err)
	view, err = f.service.SetDigit(view.ID, 3, "")
	require.NoError(t, err)
	assert.False(t, view.CanSubmit)

	_, err = f.service.Verify(context.Background(), view.ID)
	assert.Error(t, err)
	assert.Empty(t, f.provider.verifyCalls)
}

/*
TestVerify_FailureKeepsDigits verifies a rejected code leaves the digits for correction.
*/
func TestVerify_FailureKeepsDigits(t *testing.T) {
	f := newFixture()
	view := f.start(t, auth.ModeRegister)
	_, err := f.service.SetCode(view.ID, validCode)
	require.NoError(t, err)

	f.provider.verifyErr = &backend.Error{Status: http.StatusForbidden, Message: "Token has expired or is invalid"}
	_, err = f.service.Verify(context.Background(), view.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeAuth))

	view, err = f.service.Get(view.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.StateRetryVerifying, view.State)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, view.Code)
	assert.Equal(t, "Token has expired or is invalid", view.Error)
	assert.True(t, view.CanSubmit)
	assert.Empty(t, f.publisher.events)

	// Correct one digit and retry
	f.provider.verifyErr = nil
	_, err = f.service.SetDigit(view.ID, 7, "9")
	require.NoError(t, err)

	view, err = f.service.Verify(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.StateSignedIn, view.State)
	assert.Equal(t, []string{validCode, "12345679"}, f.provider.verifyCalls)
	assert.Equal(t, backend.PurposeSignup, f.provider.purposes[1])
}

/*
TestVerify_SignsIn verifies success publishes a sign-in event and discards the flow.
*/
func TestVerify_SignsIn(t *testing.T) {
	f := newFixture()
	view := f.start(t, auth.ModeLogin)
	_, err := f.service.SetCode(view.ID, validCode)
	require.NoError(t, err)

	view, err = f.service.Verify(context.Background(), view.ID)
	require.NoError(t, err)

	require.NotNil(t, view.Session)
	assert.Equal(t, "otp-token", view.Session.AccessToken)
	assert.Equal(t, []backend.OTPPurpose{backend.PurposeEmail}, f.provider.purposes)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, session.EventSignedIn, f.publisher.events[0].Kind)
	assert.Equal(t, "u1", f.publisher.events[0].Session.SubjectID)

	_, err = f.service.Get(view.ID)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestResend_Cooldown verifies resend stays disabled until the window is over.
*/
func TestResend_Cooldown(t *testing.T) {
	f := newFixture()
	view := f.start(t, auth.ModeLogin)

	previous := view.ResendIn
	for i := 0; i < 59; i++ {
		f.clock.Advance(time.Second)
		view, _ = f.service.Get(view.ID)
		assert.Less(t, view.ResendIn, previous)
		assert.False(t, view.CanResend)
		previous = view.ResendIn
	}

	_, err := f.service.Resend(context.Background(), view.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeRateLimited))
	assert.Equal(t, 0, f.provider.resends)

	f.clock.Advance(time.Second)
	view, _ = f.service.Get(view.ID)
	assert.True(t, view.CanResend)
	assert.Equal(t, 0, view.ResendIn)

	view, err = f.service.Resend(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.provider.resends)
	assert.False(t, view.CanResend)
	assert.Equal(t, 60, view.ResendIn)
}

/*
TestResend_FailureKeepsCooldownOpen verifies a failed resend can be retried at once.
*/
func TestResend_FailureKeepsCooldownOpen(t *testing.T) {
	f := newFixture()
	view := f.start(t, auth.ModeRegister)
	f.clock.Advance(time.Minute)

	f.provider.resendErr = errors.New("dial tcp: connection refused")
	_, err := f.service.Resend(context.Background(), view.ID)
	require.Error(t, err)
	assert.False(t, apperr.IsAppError(err))

	view, _ = f.service.Get(view.ID)
	assert.True(t, view.CanResend)
}

/*
TestBack verifies the user can return to the form and resubmit.
*/
func TestBack(t *testing.T) {
	f := newFixture()
	view := f.start(t, auth.ModeLogin)
	_, err := f.service.SetCode(view.ID, "12")
	require.NoError(t, err)

	view, err = f.service.Back(view.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.StateCollectingCredentials, view.State)
	assert.Equal(t, make([]string, 8), view.Code)

	_, err = f.service.SetDigit(view.ID, 0, "1")
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidTransition))

	view, err = f.service.SubmitCredentials(context.Background(), view.ID,
		auth.CredentialsInput{Mode: auth.ModeRegister, Email: validEmail, Password: validPassword})
	require.NoError(t, err)
	assert.Equal(t, auth.StateCodeSent, view.State)
	assert.Equal(t, auth.ModeRegister, view.Mode)
}

/*
TestSetDigit verifies single positions accept digits only.
*/
func TestSetDigit(t *testing.T) {
	f := newFixture()
	view := f.start(t, auth.ModeLogin)

	tests := []struct {
		name    string
		index   int
		value   string
		wantErr bool
	}{
		{"digit", 0, "4", false},
		{"keeps_last_char", 1, "45", false},
		{"clear", 2, "", false},
		{"letter", 3, "a", true},
		{"negative_index", -1, "1", true},
		{"past_end", 8, "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.SetDigit(view.ID, tt.index, tt.value)
			if tt.wantErr {
				assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
				return
			}
			assert.NoError(t, err)
		})
	}

	view, _ = f.service.Get(view.ID)
	assert.Equal(t, "4", view.Code[0])
	assert.Equal(t, "5", view.Code[1])
}

/*
TestLogout verifies sign out is published even when the token was already revoked.
*/
func TestLogout(t *testing.T) {
	f := newFixture()
	f.provider.signOutErr = &backend.Error{Status: http.StatusUnauthorized, Message: "invalid JWT"}

	require.NoError(t, f.service.Logout(context.Background(), "token", "u1"))
	assert.Equal(t, []string{"token"}, f.provider.signedOut)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, session.EventSignedOut, f.publisher.events[0].Kind)
	assert.Nil(t, f.publisher.events[0].Session)

	f.provider.signOutErr = errors.New("timeout")
	assert.Error(t, f.service.Logout(context.Background(), "token", "u1"))
	assert.Len(t, f.publisher.events, 1)
}

// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

/*
Package backend is a thin REST client for the hosted auth provider.

The provider owns password storage, one-time code delivery and token minting.
This client only forwards the calls the registration wizard and logout need:

  - POST /auth/v1/signup
  - POST /auth/v1/token?grant_type=password
  - POST /auth/v1/otp
  - POST /auth/v1/verify
  - POST /auth/v1/resend
  - POST /auth/v1/logout
  - GET  /auth/v1/user

GET /auth/v1/user also backs the request path, so restored sessions carry the
same account fields as sign-in events.
*/
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bazaari/bazaari/internal/platform/constants"
	"github.com/bazaari/bazaari/internal/platform/sec"
)

const (
	requestTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

// OTPPurpose selects which kind of one-time code is verified or resent.
type OTPPurpose string

const (
	// PurposeSignup confirms a new registration.
	PurposeSignup OTPPurpose = "signup"

	// PurposeEmail completes a password sign in with an emailed code.
	PurposeEmail OTPPurpose = "email"
)

// User is the provider's view of an account.
type User struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone"`
	UserMetadata sec.UserMetadata `json:"user_metadata"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Session is the token pair returned after a completed sign in.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

// Error is a non-2xx answer from the provider.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %d %s: %s", e.Status, e.Code, e.Message)
}

// IsClientError reports whether the provider rejected the input (4xx) rather than failing.
func IsClientError(err error) bool {
	var backendErr *Error
	return errors.As(err, &backendErr) && backendErr.Status >= 400 && backendErr.Status < 500
}

// Client calls the provider's auth REST API.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for baseURL authenticated with the public anon key.
func NewClient(baseURL, anonKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// # Auth Operations

// SignUp registers a new account. The provider emails a signup code.
func (client *Client) SignUp(ctx context.Context, email, password string) (*User, error) {
	payload := map[string]any{"email": email, "password": password}

	var user User
	if err := client.post(ctx, "/auth/v1/signup", "", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignInWithPassword checks the credentials and returns the provider session.
func (client *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]any{"email": email, "password": password}

	var session Session
	if err := client.post(ctx, "/auth/v1/token?grant_type=password", "", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SendOneTimeCode emails a sign-in code to an existing account.
func (client *Client) SendOneTimeCode(ctx context.Context, email string) error {
	payload := map[string]any{"email": email, "create_user": false}
	return client.post(ctx, "/auth/v1/otp", "", payload, nil)
}

// VerifyOneTimeCode exchanges an emailed code for a session.
func (client *Client) VerifyOneTimeCode(ctx context.Context, email, code string, purpose OTPPurpose) (*Session, error) {
	payload := map[string]any{"email": email, "token": code, "type": string(purpose)}

	var session Session
	if err := client.post(ctx, "/auth/v1/verify", "", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ResendOneTimeCode asks the provider to email a fresh code.
func (client *Client) ResendOneTimeCode(ctx context.Context, email string, purpose OTPPurpose) error {
	if purpose == PurposeEmail {
		return client.SendOneTimeCode(ctx, email)
	}
	payload := map[string]any{"email": email, "type": string(purpose)}
	return client.post(ctx, "/auth/v1/resend", "", payload, nil)
}

// SignOut revokes the refresh tokens behind accessToken.
func (client *Client) SignOut(ctx context.Context, accessToken string) error {
	return client.post(ctx, "/auth/v1/logout", accessToken, nil, nil)
}

// CurrentUser returns the account behind accessToken.
func (client *Client) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := client.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// # Transport

func (client *Client) post(ctx context.Context, path, bearer string, payload any, target any) error {
	return client.do(ctx, http.MethodPost, path, bearer, payload, target)
}

func (client *Client) do(ctx context.Context, method, path, bearer string, payload any, target any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("backend: encode %s: %w", path, err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: build %s: %w", path, err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set(constants.HeaderAPIKey, client.anonKey)
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("backend: call %s: %w", path, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		backendErr := decodeError(response)
		client.logger.WarnContext(ctx, "backend_call_rejected",
			slog.String("path", path),
			slog.Int("status", backendErr.Status),
			slog.String("code", backendErr.Code),
		)
		return backendErr
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		return fmt.Errorf("backend: decode %s: %w", path, err)
	}
	return nil
}

// decodeError reads the provider's error body. Both the legacy
// {error, error_description} and the newer {error_code, msg} shapes occur.
func decodeError(response *http.Response) *Error {
	var payload struct {
		Code             string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	raw, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
	_ = json.Unmarshal(raw, &payload)

	backendErr := &Error{Status: response.StatusCode, Code: payload.Code}
	if backendErr.Code == "" {
		backendErr.Code = payload.Error
	}

	for _, candidate := range []string{payload.Msg, payload.Message, payload.ErrorDescription, payload.Error} {
		if candidate != "" {
			backendErr.Message = candidate
			break
		}
	}
	if backendErr.Message == "" {
		backendErr.Message = http.StatusText(response.StatusCode)
	}

	return backendErr
}

// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaari/bazaari/internal/platform/backend"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *backend.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return backend.NewClient(server.URL+"/", "anon-key", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestClient_VerifyOneTimeCode verifies the request shape and the decoded session.
*/
func TestClient_VerifyOneTimeCode(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/auth/v1/verify", request.URL.Path)
		assert.Equal(t, "anon-key", request.Header.Get("apikey"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(request.Body).Decode(&payload))
		assert.Equal(t, "seller@example.com", payload["email"])
		assert.Equal(t, "12345678", payload["token"])
		assert.Equal(t, "signup", payload["type"])

		_ = json.NewEncoder(writer).Encode(map[string]any{
			"access_token": "at", "refresh_token": "rt", "expires_in": 3600,
			"user": map[string]any{"id": "u1", "email": "seller@example.com", "user_metadata": map[string]any{"full_name": "Rahim"}},
		})
	})

	session, err := client.VerifyOneTimeCode(context.Background(), "seller@example.com", "12345678", backend.PurposeSignup)
	require.NoError(t, err)
	assert.Equal(t, "at", session.AccessToken)
	assert.Equal(t, "u1", session.User.ID)
	assert.Equal(t, "Rahim", session.User.UserMetadata.FullName)
}

/*
TestClient_Errors verifies both provider error shapes are decoded.
*/
func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    string
		message string
	}{
		{"new_shape", http.StatusForbidden, `{"error_code":"otp_expired","msg":"Token has expired or is invalid"}`, "otp_expired", "Token has expired or is invalid"},
		{"legacy_shape", http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, "invalid_grant", "Invalid login credentials"},
		{"empty_body", http.StatusBadGateway, ``, "", "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(tt.status)
				_, _ = io.WriteString(writer, tt.body)
			})

			_, err := client.SignInWithPassword(context.Background(), "a@example.com", "pw")
			require.Error(t, err)

			var backendErr *backend.Error
			require.ErrorAs(t, err, &backendErr)
			assert.Equal(t, tt.status, backendErr.Status)
			assert.Equal(t, tt.code, backendErr.Code)
			assert.Equal(t, tt.message, backendErr.Message)
			assert.Equal(t, tt.status < 500, backend.IsClientError(err))
		})
	}
}

/*
TestClient_SignOut verifies the bearer token is forwarded.
*/
func TestClient_SignOut(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/auth/v1/logout", request.URL.Path)
		assert.Equal(t, "Bearer access", request.Header.Get("Authorization"))
		writer.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.SignOut(context.Background(), "access"))
}

/*
TestClient_CurrentUser verifies the account lookup keeps the creation time.
*/
func TestClient_CurrentUser(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "/auth/v1/user", request.URL.Path)
		assert.Equal(t, "Bearer access", request.Header.Get("Authorization"))

		_ = json.NewEncoder(writer).Encode(map[string]any{
			"id": "u1", "email": "seller@example.com", "created_at": "2024-01-05T10:00:00Z",
		})
	})

	user, err := client.CurrentUser(context.Background(), "access")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC), user.CreatedAt.UTC())
}

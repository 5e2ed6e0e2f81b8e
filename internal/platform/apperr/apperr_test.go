// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaari/bazaari/internal/platform/apperr"
)

/*
TestAppError_Taxonomy verifies each constructor maps to its code and HTTP status.
*/
func TestAppError_Taxonomy(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name   string
		err    *apperr.AppError
		code   string
		status int
	}{
		{"auth", apperr.Auth("Invalid code", cause), apperr.CodeAuth, http.StatusUnauthorized},
		{"validation", apperr.ValidationError("Missing"), apperr.CodeValidation, http.StatusBadRequest},
		{"resource", apperr.Resource("Camera access denied.", cause), apperr.CodeResource, http.StatusFailedDependency},
		{"remote_write", apperr.RemoteWrite("Save failed", cause), apperr.CodeRemoteWrite, http.StatusBadGateway},
		{"invalid_transition", apperr.InvalidTransition("deposit", "a", "b"), apperr.CodeInvalidTransition, http.StatusConflict},
		{"not_found", apperr.NotFound("Listing"), apperr.CodeNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

/*
TestAppError_Unwrap verifies wrapped app errors are still discoverable.
*/
func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("wallet_service_insert_failed: %w", apperr.RemoteWrite("Deposit failed", cause))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.True(t, errors.Is(wrapped, cause))
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeRemoteWrite))
	assert.False(t, apperr.IsNotFound(wrapped))
	assert.True(t, apperr.IsNotFound(fmt.Errorf("x: %w", apperr.NotFound("Profile"))))
	assert.Nil(t, apperr.As(cause))
}

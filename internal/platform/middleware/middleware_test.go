// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bazaari/bazaari/internal/platform/constants"
	"github.com/bazaari/bazaari/internal/platform/ctxutil"
	"github.com/bazaari/bazaari/internal/platform/middleware"
	"github.com/bazaari/bazaari/internal/platform/sec"
)

type stubVerifier struct {
	claims *sec.AuthClaims
	err    error
}

func (verifier stubVerifier) VerifyToken(string) (*sec.AuthClaims, error) {
	return verifier.claims, verifier.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestAuthenticate covers the anonymous, malformed, invalid and valid header paths.
*/
func TestAuthenticate(t *testing.T) {
	claims := &sec.AuthClaims{Email: "a@example.com"}
	claims.Subject = "u1"

	tests := []struct {
		name     string
		header   string
		verifier stubVerifier
		status   int
	}{
		{"anonymous", "", stubVerifier{}, http.StatusOK},
		{"malformed", "Token abc", stubVerifier{}, http.StatusUnauthorized},
		{"invalid", "Bearer abc", stubVerifier{err: errors.New("bad")}, http.StatusUnauthorized},
		{"valid", "Bearer abc", stubVerifier{claims: claims}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *sec.AuthClaims
			next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				seen = ctxutil.GetClaims(request.Context())
			})

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			middleware.Authenticate(tt.verifier)(next).ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			if tt.name == "valid" {
				assert.Equal(t, claims, seen)
			}
		})
	}
}

/*
TestRequireRole verifies the role guard returns 401 without a principal and 403 below target.
*/
func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		roleOf middleware.RoleOf
		status int
	}{
		{"anonymous", func(context.Context) (sec.UserRole, bool) { return "", false }, http.StatusUnauthorized},
		{"normal", func(context.Context) (sec.UserRole, bool) { return sec.RoleNormal, true }, http.StatusForbidden},
		{"owner", func(context.Context) (sec.UserRole, bool) { return sec.RoleOwner, true }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			middleware.RequireRole(sec.RoleOwner, tt.roleOf)(okHandler()).
				ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

/*
TestRequestID verifies an ID is generated and echoed back.
*/
func TestRequestID(t *testing.T) {
	recorder := httptest.NewRecorder()
	middleware.RequestID()(okHandler()).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))

	recorder = httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "given-id")
	middleware.RequestID()(okHandler()).ServeHTTP(recorder, request)
	assert.Equal(t, "given-id", recorder.Header().Get(constants.HeaderXRequestID))
}

/*
TestRateLimit verifies requests beyond the burst are rejected.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 0.001, 2)(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:5000"
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaari/bazaari/internal/api"
)

/*
TestReadiness verifies a failing dependency takes the instance out of rotation.
*/
func TestReadiness(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("dial tcp: refused") }

	tests := []struct {
		name   string
		checks []api.Check
		status int
		state  string
	}{
		{"all_ok", []api.Check{{Name: "postgres", Probe: healthy}, {Name: "redis", Probe: healthy}}, http.StatusOK, "ready"},
		{"redis_down", []api.Check{{Name: "postgres", Probe: healthy}, {Name: "redis", Probe: broken}}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := api.NewHealthHandlers(tt.checks, logger)

			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
			require.Equal(t, tt.status, recorder.Code)

			var body struct {
				Data struct {
					Status string `json:"status"`
					Checks []struct {
						Name string `json:"name"`
						OK   bool   `json:"ok"`
					} `json:"checks"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.state, body.Data.Status)
			assert.Len(t, body.Data.Checks, len(tt.checks))
		})
	}
}

/*
TestLiveness verifies the liveness probe never consults dependencies.
*/
func TestLiveness(t *testing.T) {
	called := false
	checks := []api.Check{{Name: "postgres", Probe: func(context.Context) error { called = true; return nil }}}
	liveness, _ := api.NewHealthHandlers(checks, slog.New(slog.NewTextHandler(io.Discard, nil)))

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, called)
}

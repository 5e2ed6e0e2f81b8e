// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaari/bazaari/internal/platform/metrics"
)

/*
TestRegistry_Instrument verifies requests are counted by route pattern and exposed on the handler.
*/
func TestRegistry_Instrument(t *testing.T) {
	registry := metrics.New()

	router := chi.NewRouter()
	router.Use(registry.Instrument)
	router.Get("/ads/{id}", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ads/42", nil))
	registry.ObserveTransition("deposit", "entering-payment-ref")
	registry.ObserveResolution("restore", "Owner")

	recorder := httptest.NewRecorder()
	registry.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	assert.True(t, strings.Contains(body, `bazaari_http_requests_total{method="GET",route="/ads/{id}",status="418"} 1`))
	assert.Contains(t, body, `bazaari_wizard_transitions_total{flow="deposit",state="entering-payment-ref"} 1`)
	assert.Contains(t, body, `bazaari_session_resolutions_total{role="Owner",source="restore"} 1`)
}

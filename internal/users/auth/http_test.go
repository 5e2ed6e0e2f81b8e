// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaari/bazaari/internal/platform/ctxutil"
	"github.com/bazaari/bazaari/internal/platform/sec"
	"github.com/bazaari/bazaari/internal/users/auth"
)

type envelope struct {
	Data  auth.View `json:"data"`
	Code  string    `json:"code"`
	Error string    `json:"error"`
}

func serve(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	var decoded envelope
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder, decoded
}

/*
TestHandler_Flow drives a registration through the HTTP surface.
*/
func TestHandler_Flow(t *testing.T) {
	f := newFixture()
	router := auth.NewHandler(f.service).Routes()

	recorder, body := serve(t, router, http.MethodPost, "/otp",
		`{"mode":"register","email":"rahim@example.com","password":"secret-pass"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	id := body.Data.ID
	require.NotEmpty(t, id)

	recorder, body = serve(t, router, http.MethodPost, "/otp/"+id+"/verify", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)

	recorder, body = serve(t, router, http.MethodPut, "/otp/"+id+"/digits/0", `{"value":"7"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "7", body.Data.Code[0])

	recorder, _ = serve(t, router, http.MethodPut, "/otp/"+id+"/code", `{"code":"12345678"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder, body = serve(t, router, http.MethodPost, "/otp/"+id+"/verify", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, auth.StateSignedIn, body.Data.State)

	recorder, _ = serve(t, router, http.MethodGet, "/otp/"+id, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

/*
TestHandler_Logout verifies logout needs an authenticated bearer request.
*/
func TestHandler_Logout(t *testing.T) {
	f := newFixture()
	router := auth.NewHandler(f.service).Routes()

	recorder, _ := serve(t, router, http.MethodPost, "/logout", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	claims := &sec.AuthClaims{Email: "rahim@example.com"}
	claims.Subject = "u1"

	request := httptest.NewRequest(http.MethodPost, "/logout", nil)
	request.Header.Set("Authorization", "Bearer access-token")
	request = request.WithContext(ctxutil.WithClaims(request.Context(), claims))
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	assert.Equal(t, http.StatusNoContent, response.Code)
	assert.Equal(t, []string{"access-token"}, f.provider.signedOut)
}

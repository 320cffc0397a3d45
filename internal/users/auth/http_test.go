// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trancanh/havenest/internal/platform/constants"
	"github.com/trancanh/havenest/internal/platform/middleware"
	"github.com/trancanh/havenest/internal/users/auth"
)

// newTestRouter builds the auth routes behind the Authenticate middleware,
// the way the server composes them.
func newTestRouter(f *fixture) http.Handler {
	handler := auth.NewHandler(f.service)
	return middleware.Authenticate(f.codec)(handler.Routes())
}

func performJSON(t *testing.T, router http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	for key, value := range header {
		request.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestLoginEndpointReturnsSessionEnvelope(t *testing.T) {
	f := newFixture(t)
	registeredAccount(t, f, "buyer@havenest.test", "hunter2so")
	router := newTestRouter(f)

	response := performJSON(t, router, http.MethodPost, "/login",
		`{"email":"buyer@havenest.test","password":"hunter2so"}`, nil)

	require.Equal(t, http.StatusOK, response.Code)

	var envelope struct {
		Data struct {
			Token        string `json:"token"`
			RefreshToken string `json:"refresh_token"`
			User         struct {
				Email    string `json:"email"`
				Username string `json:"username"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.Token)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.Equal(t, "buyer@havenest.test", envelope.Data.User.Email)

	// The raw body never carries credentials.
	assert.NotContains(t, response.Body.String(), "passwordhash")
	assert.NotContains(t, response.Body.String(), "hunter2so")
}

func TestLoginEndpointValidatesPayload(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)

	response := performJSON(t, router, http.MethodPost, "/login",
		`{"email":"not-an-email","password":""}`, nil)

	assert.Equal(t, http.StatusBadRequest, response.Code)
}

func TestRefreshEndpointReadsHeader(t *testing.T) {
	f := newFixture(t)
	session := registeredAccount(t, f, "buyer@havenest.test", "hunter2so")
	router := newTestRouter(f)

	response := performJSON(t, router, http.MethodGet, "/refreshToken", "",
		map[string]string{constants.RefreshTokenHeader: session.RefreshToken})
	assert.Equal(t, http.StatusOK, response.Code)

	// Missing header is an authorization failure, not a validation error.
	response = performJSON(t, router, http.MethodGet, "/refreshToken", "", nil)
	assert.Equal(t, http.StatusForbidden, response.Code)

	response = performJSON(t, router, http.MethodGet, "/refreshToken", "",
		map[string]string{constants.RefreshTokenHeader: "tampered"})
	assert.Equal(t, http.StatusForbidden, response.Code)
}

func TestWelcomeRequiresSession(t *testing.T) {
	f := newFixture(t)
	session := registeredAccount(t, f, "buyer@havenest.test", "hunter2so")
	router := newTestRouter(f)

	response := performJSON(t, router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, response.Code)

	response = performJSON(t, router, http.MethodGet, "/", "",
		map[string]string{"Authorization": "Bearer " + session.Token})
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "Welcome to Havenest")
}

func TestPreRegisterEndpointReportsDispatch(t *testing.T) {
	f := newFixture(t)
	router := newTestRouter(f)

	response := performJSON(t, router, http.MethodPost, "/pre-register",
		`{"email":"new@havenest.test","password":"hunter2so"}`, nil)

	require.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"data":{"ok":true}}`, response.Body.String())

	// Conflict on an address that finished registration.
	registeredAccount(t, f, "buyer@havenest.test", "hunter2so")
	response = performJSON(t, router, http.MethodPost, "/pre-register",
		`{"email":"buyer@havenest.test","password":"hunter2so"}`, nil)
	assert.Equal(t, http.StatusConflict, response.Code)
}

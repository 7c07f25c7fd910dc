// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-life-keeper/internal/app"
	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/MKhiriev/go-life-keeper/internal/store"
	"github.com/MKhiriev/go-life-keeper/models"
)

func userBody(t *testing.T, u models.User) string {
	t.Helper()
	b, err := json.Marshal(u)
	require.NoError(t, err)
	return string(b)
}

var validUser = models.User{Login: "alice", Password: "secret"}

// ─────────────────────────────────────────────
// register
// ─────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	var registered models.User
	auth := &mockAuthService{
		registerUserFn: func(_ context.Context, u models.User) (models.User, error) {
			registered = u
			u.UserID = 12
			return u, nil
		},
		createTokenFn: func(_ context.Context, u models.User) (models.Token, error) {
			assert.Equal(t, int64(12), u.UserID)
			return models.Token{SignedString: "signed.jwt.token"}, nil
		},
	}
	h := newTestHandler(t, auth, nil, "")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(userBody(t, validUser)))
	rec := httptest.NewRecorder()
	h.register(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer signed.jwt.token", rec.Header().Get("Authorization"))
	assert.Equal(t, validUser, registered)
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		tokenErr   error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "invalid JSON",
			body:       `{"login":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   app.MsgInvalidDataProvided,
		},
		{
			name:       "invalid data",
			body:       `{}`,
			serviceErr: service.ErrInvalidDataProvided,
			wantStatus: http.StatusBadRequest,
			wantBody:   app.MsgInvalidDataProvided,
		},
		{
			name:       "login taken",
			body:       `{"login":"alice","password":"x"}`,
			serviceErr: store.ErrLoginAlreadyExists,
			wantStatus: http.StatusConflict,
			wantBody:   app.MsgLoginAlreadyExists,
		},
		{
			name:       "unexpected error",
			body:       `{"login":"alice","password":"x"}`,
			serviceErr: errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   app.MsgRegistrationFailed,
		},
		{
			name:       "token creation fails",
			body:       `{"login":"alice","password":"x"}`,
			tokenErr:   service.ErrTokenCreationFailed,
			wantStatus: http.StatusInternalServerError,
			wantBody:   app.MsgInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthService{
				registerUserFn: func(_ context.Context, u models.User) (models.User, error) {
					return u, tt.serviceErr
				},
				createTokenFn: func(_ context.Context, _ models.User) (models.Token, error) {
					return models.Token{SignedString: "tok"}, tt.tokenErr
				},
			}
			h := newTestHandler(t, auth, nil, "")

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.register(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
			assert.Empty(t, rec.Header().Get("Authorization"))
		})
	}
}

// ─────────────────────────────────────────────
// login
// ─────────────────────────────────────────────

func TestLogin_Success(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, validUser, u)
			return models.User{UserID: 5, Login: u.Login}, nil
		},
		createTokenFn: func(_ context.Context, u models.User) (models.Token, error) {
			return models.Token{SignedString: "login-token", UserID: u.UserID}, nil
		},
	}
	h := newTestHandler(t, auth, nil, "")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(userBody(t, validUser)))
	rec := httptest.NewRecorder()
	h.login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer login-token", rec.Header().Get("Authorization"))
}

func TestLogin_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantBody   string
	}{
		{"invalid JSON", `not json`, nil, http.StatusBadRequest, app.MsgInvalidDataProvided},
		{"invalid data", `{}`, service.ErrInvalidDataProvided, http.StatusBadRequest, app.MsgInvalidDataProvided},
		{"unknown user", `{"login":"bob","password":"x"}`, store.ErrNoUserWasFound, http.StatusUnauthorized, app.MsgInvalidLoginPassword},
		{"wrong password", `{"login":"bob","password":"x"}`, service.ErrWrongPassword, http.StatusUnauthorized, app.MsgInvalidLoginPassword},
		{"unexpected error", `{"login":"bob","password":"x"}`, errors.New("boom"), http.StatusInternalServerError, app.MsgLoginFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthService{
				loginFn: func(_ context.Context, u models.User) (models.User, error) {
					return models.User{}, tt.serviceErr
				},
			}
			h := newTestHandler(t, auth, nil, "")

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.login(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestLogin_WrappedErrorsAreMatched(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(_ context.Context, _ models.User) (models.User, error) {
			return models.User{}, errors.Join(errors.New("lookup"), store.ErrNoUserWasFound)
		},
	}
	h := newTestHandler(t, auth, nil, "")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(userBody(t, validUser)))
	rec := httptest.NewRecorder()
	h.login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/unistream/internal/account"
	"github.com/tomtom215/unistream/internal/auth"
)

func TestSignIn(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/auth/signin", map[string]string{"email": "Ana@Example.com", "password": "secret123"}, "")
	checkStatus(t, rec, http.StatusOK)

	var session account.Session
	decodeData(t, rec, &session)
	if session.User == nil {
		t.Fatal("session has no user")
	}
	if session.User.Username != "ana" {
		t.Errorf("username = %q, want %q", session.User.Username, "ana")
	}
	if len(session.User.ActiveSubscriptions) != 8 {
		t.Errorf("subscriptions = %d, want 8", len(session.User.ActiveSubscriptions))
	}
	if session.ExpiresAt.IsZero() {
		t.Error("expires_at missing")
	}
}

func TestAuth_Errors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		name   string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"malformed body", "/api/v1/auth/signin", "{", http.StatusBadRequest, ErrCodeBadRequest},
		{"missing password", "/api/v1/auth/signin", map[string]string{"email": "a@b.com"}, http.StatusBadRequest, ErrCodeValidationFailed},
		{"short password", "/api/v1/auth/signin", map[string]string{"email": "a@b.com", "password": "abc"}, http.StatusUnauthorized, ErrCodeInvalidCredentials},
		{"signup bad email", "/api/v1/auth/signup", map[string]string{"email": "nope", "password": "secret123"}, http.StatusBadRequest, ErrCodeInvalidEmail},
		{"signup weak password", "/api/v1/auth/signup", map[string]string{"email": "a@b.com", "password": "abc"}, http.StatusBadRequest, ErrCodeWeakPassword},
		{"unknown provider", "/api/v1/auth/social/myspace", nil, http.StatusUnauthorized, ErrCodeInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkErrorCode(t, env.do(http.MethodPost, tt.path, tt.body, ""), tt.status, tt.code)
		})
	}
}

func TestSignUp_ThenSignIn(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"username": "Bea", "email": "bea@example.com", "password": "hunter22",
	}, "")
	checkStatus(t, rec, http.StatusCreated)
	var session account.Session
	decodeData(t, rec, &session)
	if session.User.Username != "Bea" {
		t.Errorf("username = %q, want Bea", session.User.Username)
	}
	if len(session.User.ActiveSubscriptions) != 0 {
		t.Errorf("sign-up granted %d subscriptions, want 0", len(session.User.ActiveSubscriptions))
	}

	wrong := env.do(http.MethodPost, "/api/v1/auth/signin", map[string]string{"email": "bea@example.com", "password": "wrong-pass"}, "")
	checkErrorCode(t, wrong, http.StatusUnauthorized, ErrCodeInvalidCredentials)

	right := env.do(http.MethodPost, "/api/v1/auth/signin", map[string]string{"email": "bea@example.com", "password": "hunter22"}, "")
	checkStatus(t, right, http.StatusOK)

	taken := env.do(http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"username": "Imposter", "email": "bea@example.com", "password": "other-pass",
	}, "")
	checkErrorCode(t, taken, http.StatusConflict, ErrCodeEmailTaken)
}

func TestSocialSignIn(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	for _, provider := range auth.SupportedSocialProviders() {
		t.Run(provider, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/v1/auth/social/"+provider, nil, "")
			checkStatus(t, rec, http.StatusOK)
			var session account.Session
			decodeData(t, rec, &session)
			if session.User.Provider != provider {
				t.Errorf("provider = %q, want %q", session.User.Provider, provider)
			}
		})
	}
}

func TestSignOut_RevokesToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token := env.signIn("carl@example.com")

	checkStatus(t, env.do(http.MethodGet, "/api/v1/me", nil, token), http.StatusOK)
	checkStatus(t, env.do(http.MethodPost, "/api/v1/auth/signout", nil, token), http.StatusNoContent)
	checkErrorCode(t, env.do(http.MethodGet, "/api/v1/me", nil, token), http.StatusUnauthorized, ErrCodeUnauthorized)
	checkErrorCode(t, env.do(http.MethodPost, "/api/v1/auth/signout", nil, token), http.StatusUnauthorized, ErrCodeUnauthorized)
}

func TestAuthMiddleware_RejectsBadTokens(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"garbage", "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(http.MethodGet, "/api/v1/me")
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(env, req)
			checkErrorCode(t, rec, http.StatusUnauthorized, ErrCodeUnauthorized)
		})
	}
}

// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/unistream/internal/auth"
	"github.com/tomtom215/unistream/internal/logging"
)

// SessionChecker reports whether a user still has a live session.
type SessionChecker interface {
	IsAuthenticated(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AuthMiddleware validates bearer tokens and attaches *auth.Claims to the
// request context.
type AuthMiddleware struct {
	tokens   *auth.TokenManager
	sessions SessionChecker
}

// NewAuthMiddleware creates the middleware.
func NewAuthMiddleware(tokens *auth.TokenManager, sessions SessionChecker) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// Require rejects requests without a valid token for a signed-in user.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authenticate(r)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Authentication failed")
			NewResponseWriter(w, r).Unauthorized("Authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
	})
}

// Optional attaches claims when a valid token is present and passes
// anonymous requests through unchanged.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := m.authenticate(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*auth.Claims, error) {
	token, err := extractBearerToken(r)
	if err != nil {
		return nil, err
	}
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	ok, err := m.sessions.IsAuthenticated(r.Context(), claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("session ended for user %s", claims.UserID)
	}
	return claims, nil
}

func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}

// viewerID returns the signed-in user's ID, or uuid.Nil for anonymous
// requests.
func viewerID(r *http.Request) uuid.UUID {
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		return claims.UserID
	}
	return uuid.Nil
}

// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents JWT claims
type Claims struct {
	UserID   uuid.UUID `json:"uid"`
	Username string    `json:"username"`
	Provider string    `json:"provider"`
	jwt.RegisteredClaims
}

// TokenManager handles JWT token creation and validation
type TokenManager struct {
	secret  []byte
	timeout time.Duration
	now     func() time.Time
}

// NewTokenManager creates a token manager signing with HMAC-SHA256.
//
// The secret must be non-empty; configuration validation enforces the
// 32 character minimum before this is reached.
func NewTokenManager(secret string, timeout time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required but was empty")
	}
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), timeout: timeout, now: time.Now}, nil
}

// GenerateToken creates a signed token for ident, valid for the
// configured session timeout.
func (m *TokenManager) GenerateToken(ident *Identity) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.timeout)
	claims := &Claims{
		UserID:   ident.UserID,
		Username: ident.Username,
		Provider: ident.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// ValidateToken checks signature, algorithm and expiry and returns the
// claims.
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

type contextKey string

// ClaimsContextKey holds the validated *Claims of a request.
const ClaimsContextKey contextKey = "claims"

// ContextWithClaims stores claims in ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext returns the request's claims, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*Claims)
	return claims
}

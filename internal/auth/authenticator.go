// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Error is an authentication failure with a user-facing message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInvalidCredentials = &Error{Code: "invalid_credentials", Message: "Invalid email or password"}
	ErrInvalidEmail       = &Error{Code: "invalid_email", Message: "Please enter a valid email address"}
	ErrWeakPassword       = &Error{Code: "weak_password", Message: "Password must be at least 6 characters"}
	ErrNetwork            = &Error{Code: "network_error", Message: "Network error. Please try again"}
	ErrEmailTaken         = &Error{Code: "email_taken", Message: "An account with this email already exists"}
)

// Sign-in methods, also stored as models.User.Provider.
const (
	ProviderEmail    = "email"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
	ProviderX        = "x"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 6

// Identity is an authenticated person.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Email    string
	Provider string
}

// Authenticator verifies credentials and returns an identity.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, username, email, password string) (*Identity, error)
	SocialSignIn(ctx context.Context, provider string) (*Identity, error)
}

// identityNamespace scopes derived user IDs.
var identityNamespace = uuid.MustParse("6f3d2c8e-4b1a-5d7e-9c0f-2a8b4e6d1c3f")

// UserIDFor derives a stable user ID for a provider and subject (the
// normalized email for email accounts, the provider name for social).
func UserIDFor(provider, subject string) uuid.UUID {
	return uuid.NewSHA1(identityNamespace, []byte(provider+":"+strings.ToLower(strings.TrimSpace(subject))))
}

// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package auth

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/metrics"
	"github.com/tomtom215/unistream/internal/persistence"
)

// CredentialStore persists password hashes by email.
type CredentialStore interface {
	SaveCredential(ctx context.Context, email string, hash []byte) error
	LoadCredential(ctx context.Context, email string) ([]byte, error)
}

// MockAuthenticator accepts any well-formed email and password. When a
// password was registered through SignUp it must match.
type MockAuthenticator struct {
	store   CredentialStore
	latency time.Duration
	cost    int
}

var _ Authenticator = (*MockAuthenticator)(nil)

// MockOption configures a MockAuthenticator.
type MockOption func(*MockAuthenticator)

// WithLatency delays every call by d to imitate a remote identity
// provider. Cancelling the context during the delay yields ErrNetwork.
func WithLatency(d time.Duration) MockOption {
	return func(m *MockAuthenticator) { m.latency = d }
}

// WithBcryptCost overrides the hashing cost (tests use bcrypt.MinCost).
func WithBcryptCost(cost int) MockOption {
	return func(m *MockAuthenticator) { m.cost = cost }
}

// NewMockAuthenticator creates an authenticator backed by store.
func NewMockAuthenticator(store CredentialStore, opts ...MockOption) *MockAuthenticator {
	m := &MockAuthenticator{store: store, cost: 12}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// socialNames are the display names of supported social providers.
var socialNames = map[string]string{
	ProviderGoogle:   "Google",
	ProviderFacebook: "Facebook",
	ProviderX:        "X",
}

// SignIn implements Authenticator.
func (m *MockAuthenticator) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	ident, err := m.signIn(ctx, email, password)
	recordAttempt("signin", err)
	return ident, err
}

func (m *MockAuthenticator) signIn(ctx context.Context, email, password string) (*Identity, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	email = persistence.NormalizeEmail(email)
	if !strings.Contains(email, "@") || utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, ErrInvalidCredentials
	}

	hash, err := m.store.LoadCredential(ctx, email)
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		// Unregistered emails are accepted, as the demo app did.
	case err != nil:
		logging.Error().Err(err).Msg("Credential lookup failed")
		return nil, ErrNetwork
	default:
		if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
	}

	return &Identity{
		UserID:   UserIDFor(ProviderEmail, email),
		Username: localPart(email),
		Email:    email,
		Provider: ProviderEmail,
	}, nil
}

// SignUp implements Authenticator. An email that already has a password
// cannot be registered again.
func (m *MockAuthenticator) SignUp(ctx context.Context, username, email, password string) (*Identity, error) {
	ident, err := m.signUp(ctx, username, email, password)
	recordAttempt("signup", err)
	return ident, err
}

func (m *MockAuthenticator) signUp(ctx context.Context, username, email, password string) (*Identity, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	email = persistence.NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	_, err := m.store.LoadCredential(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, persistence.ErrNotFound):
		logging.Error().Err(err).Msg("Credential lookup failed")
		return nil, ErrNetwork
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		logging.Error().Err(err).Msg("Password hashing failed")
		return nil, ErrNetwork
	}
	if err := m.store.SaveCredential(ctx, email, hash); err != nil {
		logging.Error().Err(err).Msg("Credential save failed")
		return nil, ErrNetwork
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = localPart(email)
	}
	return &Identity{
		UserID:   UserIDFor(ProviderEmail, email),
		Username: username,
		Email:    email,
		Provider: ProviderEmail,
	}, nil
}

// SocialSignIn implements Authenticator.
func (m *MockAuthenticator) SocialSignIn(ctx context.Context, provider string) (*Identity, error) {
	ident, err := m.socialSignIn(ctx, provider)
	recordAttempt("social", err)
	return ident, err
}

func (m *MockAuthenticator) socialSignIn(ctx context.Context, provider string) (*Identity, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	provider = strings.ToLower(strings.TrimSpace(provider))
	name, ok := socialNames[provider]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return &Identity{
		UserID:   UserIDFor(provider, provider),
		Username: name + " User",
		Provider: provider,
	}, nil
}

// SupportedSocialProviders lists the accepted provider names.
func SupportedSocialProviders() []string {
	return []string{ProviderGoogle, ProviderFacebook, ProviderX}
}

func (m *MockAuthenticator) wait(ctx context.Context) error {
	if m.latency <= 0 {
		if ctx.Err() != nil {
			return ErrNetwork
		}
		return nil
	}
	timer := time.NewTimer(m.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ErrNetwork
	case <-timer.C:
		return nil
	}
}

func localPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "user"
	}
	return local
}

func recordAttempt(method string, err error) {
	outcome := "success"
	var authErr *Error
	if errors.As(err, &authErr) {
		outcome = authErr.Code
	} else if err != nil {
		outcome = "error"
	}
	metrics.AuthAttempts.WithLabelValues(method, outcome).Inc()
}

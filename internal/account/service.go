// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

// Package account manages per-user state on top of an Authenticator and
// a persistence.Store: sessions, the my-list, comments and subscriptions.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/unistream/internal/auth"
	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/models"
	"github.com/tomtom215/unistream/internal/persistence"
)

var (
	// ErrNotSignedIn is returned for users without a live session.
	ErrNotSignedIn = errors.New("account: not signed in")

	// ErrEmptyComment is returned for blank comment text.
	ErrEmptyComment = errors.New("account: comment text is empty")
)

// Session is returned by the sign-in operations.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Service is the user-state facade used by the API.
type Service struct {
	authn  auth.Authenticator
	tokens *auth.TokenManager
	store  persistence.Store
	now    func() time.Time

	// mu serializes read-modify-write cycles on a user's records.
	mu sync.Mutex
}

// NewService creates a Service.
func NewService(authn auth.Authenticator, tokens *auth.TokenManager, store persistence.Store) *Service {
	return &Service{authn: authn, tokens: tokens, store: store, now: time.Now}
}

// SignIn authenticates with email and password. New users receive the
// sample subscription set.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	ident, err := s.authn.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, ident, true)
}

// SignUp registers an account. New users start without subscriptions.
func (s *Service) SignUp(ctx context.Context, username, email, password string) (*Session, error) {
	ident, err := s.authn.SignUp(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, ident, false)
}

// SocialSignIn authenticates through a social provider.
func (s *Service) SocialSignIn(ctx context.Context, provider string) (*Session, error) {
	ident, err := s.authn.SocialSignIn(ctx, provider)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, ident, false)
}

// establish loads or creates the user record, marks it authenticated
// and issues a token. An existing record keeps its join date and lists.
func (s *Service) establish(ctx context.Context, ident *auth.Identity, grantSubscriptions bool) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.LoadUser(ctx, ident.UserID)
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		now := s.now().UTC()
		user = &models.User{
			ID:                  ident.UserID,
			Username:            ident.Username,
			Email:               ident.Email,
			Provider:            ident.Provider,
			JoinDate:            now,
			AddedContent:        []models.Content{},
			WatchHistory:        []models.Content{},
			ActiveSubscriptions: []models.Subscription{},
			Comments:            []models.Comment{},
		}
		if grantSubscriptions {
			user.ActiveSubscriptions = models.DefaultSubscriptions(now)
		}
	case err != nil:
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	if err := s.store.SaveAuthState(ctx, user.ID, true); err != nil {
		return nil, fmt.Errorf("save auth state: %w", err)
	}

	token, expires, err := s.tokens.GenerateToken(ident)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID.String()).Str("provider", ident.Provider).Msg("User signed in")
	return &Session{Token: token, ExpiresAt: expires, User: user}, nil
}

// SignOut clears every record of userID except registered credentials.
func (s *Service) SignOut(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear user state: %w", err)
	}
	logging.Ctx(ctx).Info().Str("user_id", userID.String()).Msg("User signed out")
	return nil
}

// IsAuthenticated reports whether userID has a live session.
func (s *Service) IsAuthenticated(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.store.LoadAuthState(ctx, userID)
}

// CurrentUser returns the stored user, or ErrNotSignedIn.
func (s *Service) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if err := s.requireSession(ctx, userID); err != nil {
		return nil, err
	}
	user, err := s.store.LoadUser(ctx, userID)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, ErrNotSignedIn
	}
	return user, err
}

// Subscriptions returns the user's plans.
func (s *Service) Subscriptions(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ActiveSubscriptions == nil {
		return []models.Subscription{}, nil
	}
	return user.ActiveSubscriptions, nil
}

// MyList returns the saved titles in insertion order.
func (s *Service) MyList(ctx context.Context, userID uuid.UUID) ([]models.Content, error) {
	if err := s.requireSession(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.LoadMyList(ctx, userID)
}

// AddToMyList appends content unless an entry with the same ID exists.
// It reports whether the list changed.
func (s *Service) AddToMyList(ctx context.Context, userID uuid.UUID, content *models.Content) (bool, error) {
	if err := s.requireSession(ctx, userID); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.LoadMyList(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, c := range list {
		if c.ID == content.ID {
			return false, nil
		}
	}
	list = append(list, *content)
	if err := s.store.SaveMyList(ctx, userID, list); err != nil {
		return false, err
	}
	return true, s.syncUserLists(ctx, userID, list, nil)
}

// RemoveFromMyList drops every entry with contentID. It reports whether
// anything was removed.
func (s *Service) RemoveFromMyList(ctx context.Context, userID, contentID uuid.UUID) (bool, error) {
	if err := s.requireSession(ctx, userID); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.LoadMyList(ctx, userID)
	if err != nil {
		return false, err
	}
	kept := list[:0]
	for _, c := range list {
		if c.ID != contentID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(list) {
		return false, nil
	}
	if err := s.store.SaveMyList(ctx, userID, kept); err != nil {
		return false, err
	}
	return true, s.syncUserLists(ctx, userID, kept, nil)
}

// IsInMyList reports whether contentID is saved.
func (s *Service) IsInMyList(ctx context.Context, userID, contentID uuid.UUID) (bool, error) {
	list, err := s.MyList(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, c := range list {
		if c.ID == contentID {
			return true, nil
		}
	}
	return false, nil
}

// AddComment records a comment by the user on content, or on one of its
// episodes when episodeID is non-nil.
func (s *Service) AddComment(ctx context.Context, userID, contentID uuid.UUID, episodeID *uuid.UUID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	comments, err := s.store.LoadComments(ctx, userID)
	if err != nil {
		return nil, err
	}
	comment := models.Comment{
		ID:        uuid.New(),
		Username:  user.Username,
		Text:      text,
		Timestamp: s.now().UTC(),
		ContentID: contentID,
		EpisodeID: episodeID,
	}
	comments = append(comments, comment)
	if err := s.store.SaveComments(ctx, userID, comments); err != nil {
		return nil, err
	}
	if err := s.syncUserLists(ctx, userID, nil, comments); err != nil {
		return nil, err
	}
	return &comment, nil
}

// Comments returns the user's comments, oldest first.
func (s *Service) Comments(ctx context.Context, userID uuid.UUID) ([]models.Comment, error) {
	if err := s.requireSession(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.LoadComments(ctx, userID)
}

// CommentsFor filters the user's comments to one content item.
func (s *Service) CommentsFor(ctx context.Context, userID, contentID uuid.UUID) ([]models.Comment, error) {
	all, err := s.Comments(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Comment, 0)
	for _, c := range all {
		if c.ContentID == contentID {
			out = append(out, c)
		}
	}
	return out, nil
}

// syncUserLists mirrors list or comments into the user snapshot so
// /me returns a consistent view. Nil arguments are left unchanged.
func (s *Service) syncUserLists(ctx context.Context, userID uuid.UUID, list []models.Content, comments []models.Comment) error {
	user, err := s.store.LoadUser(ctx, userID)
	if err != nil {
		return err
	}
	if list != nil {
		user.AddedContent = list
	}
	if comments != nil {
		user.Comments = comments
	}
	return s.store.SaveUser(ctx, user)
}

func (s *Service) requireSession(ctx context.Context, userID uuid.UUID) error {
	ok, err := s.store.LoadAuthState(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotSignedIn
	}
	return nil
}

// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

// Package persistence stores user state: authentication flags, user
// snapshots, my-list entries, comments, registered credentials and the
// shared interaction sets.
//
// Two implementations are provided. BadgerStore is durable and is what
// the server runs with; MemoryStore backs tests and ephemeral runs.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tomtom215/unistream/internal/models"
)

// ErrNotFound is returned by loads that require a value.
var ErrNotFound = errors.New("persistence: not found")

// InteractionSets maps a content or episode ID to the ordered set of
// user IDs that liked or watched it.
type InteractionSets struct {
	ContentLikes map[uuid.UUID][]uuid.UUID `json:"content_likes"`
	ContentViews map[uuid.UUID][]uuid.UUID `json:"content_views"`
	EpisodeLikes map[uuid.UUID][]uuid.UUID `json:"episode_likes"`
	EpisodeViews map[uuid.UUID][]uuid.UUID `json:"episode_views"`
}

// NewInteractionSets returns empty, non-nil sets.
func NewInteractionSets() InteractionSets {
	return InteractionSets{
		ContentLikes: make(map[uuid.UUID][]uuid.UUID),
		ContentViews: make(map[uuid.UUID][]uuid.UUID),
		EpisodeLikes: make(map[uuid.UUID][]uuid.UUID),
		EpisodeViews: make(map[uuid.UUID][]uuid.UUID),
	}
}

// fill replaces nil maps left by decoding.
func (s *InteractionSets) fill() {
	if s.ContentLikes == nil {
		s.ContentLikes = make(map[uuid.UUID][]uuid.UUID)
	}
	if s.ContentViews == nil {
		s.ContentViews = make(map[uuid.UUID][]uuid.UUID)
	}
	if s.EpisodeLikes == nil {
		s.EpisodeLikes = make(map[uuid.UUID][]uuid.UUID)
	}
	if s.EpisodeViews == nil {
		s.EpisodeViews = make(map[uuid.UUID][]uuid.UUID)
	}
}

// Store is the user-state persistence contract.
//
// List loads return an empty slice, and LoadAuthState returns false, when
// nothing was saved. LoadUser and LoadCredential return ErrNotFound.
type Store interface {
	SaveAuthState(ctx context.Context, userID uuid.UUID, authenticated bool) error
	LoadAuthState(ctx context.Context, userID uuid.UUID) (bool, error)

	SaveUser(ctx context.Context, user *models.User) error
	LoadUser(ctx context.Context, userID uuid.UUID) (*models.User, error)

	SaveMyList(ctx context.Context, userID uuid.UUID, list []models.Content) error
	LoadMyList(ctx context.Context, userID uuid.UUID) ([]models.Content, error)

	SaveComments(ctx context.Context, userID uuid.UUID, comments []models.Comment) error
	LoadComments(ctx context.Context, userID uuid.UUID) ([]models.Comment, error)

	SaveInteractions(ctx context.Context, sets InteractionSets) error
	LoadInteractions(ctx context.Context) (InteractionSets, error)

	// Credentials are keyed by normalized email and survive Clear.
	SaveCredential(ctx context.Context, email string, hash []byte) error
	LoadCredential(ctx context.Context, email string) ([]byte, error)

	// Clear removes the auth flag, user snapshot, my list and comments
	// of one user.
	Clear(ctx context.Context, userID uuid.UUID) error

	Close() error
}

// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

// Package interaction tracks which users liked or watched each content
// item and episode.
package interaction

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/metrics"
	"github.com/tomtom215/unistream/internal/persistence"
)

// Target selects content or episode sets.
type Target string

const (
	TargetContent Target = "content"
	TargetEpisode Target = "episode"
)

// Valid reports whether t is a known target.
func (t Target) Valid() bool {
	return t == TargetContent || t == TargetEpisode
}

type kind string

const (
	kindLike kind = "like"
	kindView kind = "view"
)

// Stats summarizes one item for one viewer.
type Stats struct {
	Likes   int  `json:"likes"`
	Views   int  `json:"views"`
	Liked   bool `json:"liked"`
	Watched bool `json:"watched"`
}

// Store is the subset of persistence.Store the tracker needs.
type Store interface {
	SaveInteractions(ctx context.Context, sets persistence.InteractionSets) error
	LoadInteractions(ctx context.Context) (persistence.InteractionSets, error)
}

// Tracker holds the interaction sets in memory and writes them through
// to the store after every mutation.
type Tracker struct {
	mu    sync.RWMutex
	sets  persistence.InteractionSets
	store Store
}

// NewTracker restores the persisted sets.
func NewTracker(ctx context.Context, store Store) (*Tracker, error) {
	sets, err := store.LoadInteractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}
	return &Tracker{sets: sets, store: store}, nil
}

func (t *Tracker) setFor(target Target, k kind) map[uuid.UUID][]uuid.UUID {
	switch {
	case target == TargetContent && k == kindLike:
		return t.sets.ContentLikes
	case target == TargetContent && k == kindView:
		return t.sets.ContentViews
	case target == TargetEpisode && k == kindLike:
		return t.sets.EpisodeLikes
	default:
		return t.sets.EpisodeViews
	}
}

// Like adds userID to the likers of id. It reports whether the set changed.
func (t *Tracker) Like(ctx context.Context, target Target, id, userID uuid.UUID) (bool, error) {
	return t.add(ctx, target, kindLike, id, userID)
}

// Unlike removes userID from the likers of id.
func (t *Tracker) Unlike(ctx context.Context, target Target, id, userID uuid.UUID) (bool, error) {
	return t.remove(ctx, target, kindLike, id, userID)
}

// MarkWatched adds userID to the viewers of id.
func (t *Tracker) MarkWatched(ctx context.Context, target Target, id, userID uuid.UUID) (bool, error) {
	return t.add(ctx, target, kindView, id, userID)
}

// UnmarkWatched removes userID from the viewers of id.
func (t *Tracker) UnmarkWatched(ctx context.Context, target Target, id, userID uuid.UUID) (bool, error) {
	return t.remove(ctx, target, kindView, id, userID)
}

func (t *Tracker) HasLiked(target Target, id, userID uuid.UUID) bool {
	return t.has(target, kindLike, id, userID)
}

func (t *Tracker) HasWatched(target Target, id, userID uuid.UUID) bool {
	return t.has(target, kindView, id, userID)
}

func (t *Tracker) LikeCount(target Target, id uuid.UUID) int {
	return t.count(target, kindLike, id)
}

func (t *Tracker) ViewCount(target Target, id uuid.UUID) int {
	return t.count(target, kindView, id)
}

// Stats returns counts for id and, when viewer is not uuid.Nil, the
// viewer's own flags.
func (t *Tracker) Stats(target Target, id, viewer uuid.UUID) Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	likes := t.setFor(target, kindLike)[id]
	views := t.setFor(target, kindView)[id]
	st := Stats{Likes: len(likes), Views: len(views)}
	if viewer != uuid.Nil {
		st.Liked = slices.Contains(likes, viewer)
		st.Watched = slices.Contains(views, viewer)
	}
	return st
}

// Clear drops every set and persists the empty state.
func (t *Tracker) Clear(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev := t.sets
	t.sets = persistence.NewInteractionSets()
	if err := t.store.SaveInteractions(ctx, t.sets); err != nil {
		t.sets = prev
		return fmt.Errorf("save interactions: %w", err)
	}
	return nil
}

func (t *Tracker) add(ctx context.Context, target Target, k kind, id, userID uuid.UUID) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.setFor(target, k)
	users := set[id]
	if slices.Contains(users, userID) {
		return false, nil
	}
	set[id] = append(users, userID)
	if err := t.persist(ctx); err != nil {
		set[id] = users
		if len(users) == 0 {
			delete(set, id)
		}
		return false, err
	}
	metrics.Interactions.WithLabelValues(string(target), string(k), "add").Inc()
	return true, nil
}

func (t *Tracker) remove(ctx context.Context, target Target, k kind, id, userID uuid.UUID) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.setFor(target, k)
	users := set[id]
	i := slices.Index(users, userID)
	if i < 0 {
		return false, nil
	}
	kept := slices.Delete(slices.Clone(users), i, i+1)
	if len(kept) == 0 {
		delete(set, id)
	} else {
		set[id] = kept
	}
	if err := t.persist(ctx); err != nil {
		set[id] = users
		return false, err
	}
	metrics.Interactions.WithLabelValues(string(target), string(k), "remove").Inc()
	return true, nil
}

func (t *Tracker) has(target Target, k kind, id, userID uuid.UUID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Contains(t.setFor(target, k)[id], userID)
}

func (t *Tracker) count(target Target, k kind, id uuid.UUID) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.setFor(target, k)[id])
}

// persist must be called with mu held.
func (t *Tracker) persist(ctx context.Context) error {
	if err := t.store.SaveInteractions(ctx, t.sets); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to persist interactions")
		return fmt.Errorf("save interactions: %w", err)
	}
	return nil
}

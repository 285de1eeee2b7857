// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/unistream/internal/interaction"
)

// InteractionResult is returned by like and watch mutations.
type InteractionResult struct {
	ID      uuid.UUID         `json:"id"`
	Changed bool              `json:"changed"`
	Stats   interaction.Stats `json:"stats"`
}

type interactionOp func(t *interaction.Tracker, ctx context.Context, target interaction.Target, id, userID uuid.UUID) (bool, error)

var (
	opLike          interactionOp = (*interaction.Tracker).Like
	opUnlike        interactionOp = (*interaction.Tracker).Unlike
	opMarkWatched   interactionOp = (*interaction.Tracker).MarkWatched
	opUnmarkWatched interactionOp = (*interaction.Tracker).UnmarkWatched
)

// LikeContent, UnlikeContent and friends are thin wrappers binding a
// target and operation to interact.
func (h *Handler) LikeContent(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, interaction.TargetContent, opLike)
}

func (h *Handler) UnlikeContent(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, interaction.TargetContent, opUnlike)
}

func (h *Handler) WatchContent(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, interaction.TargetContent, opMarkWatched)
}

func (h *Handler) UnwatchContent(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, interaction.TargetContent, opUnmarkWatched)
}

func (h *Handler) LikeEpisode(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, interaction.TargetEpisode, opLike)
}

func (h *Handler) UnlikeEpisode(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, interaction.TargetEpisode, opUnlike)
}

func (h *Handler) WatchEpisode(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, interaction.TargetEpisode, opMarkWatched)
}

func (h *Handler) UnwatchEpisode(w http.ResponseWriter, r *http.Request) {
	h.interact(w, r, interaction.TargetEpisode, opUnmarkWatched)
}

// ContentStats returns counts for a title and the caller's own flags.
func (h *Handler) ContentStats(w http.ResponseWriter, r *http.Request) {
	h.stats(w, r, interaction.TargetContent)
}

// EpisodeStats returns counts for an episode and the caller's own flags.
func (h *Handler) EpisodeStats(w http.ResponseWriter, r *http.Request) {
	h.stats(w, r, interaction.TargetEpisode)
}

func (h *Handler) interact(w http.ResponseWriter, r *http.Request, target interaction.Target, op interactionOp) {
	rw := NewResponseWriter(w, r)
	uid, ok := requireUser(rw, r)
	if !ok {
		return
	}
	id, ok := h.resolveTarget(rw, r, target)
	if !ok {
		return
	}

	changed, err := op(h.tracker, r.Context(), target, id, uid)
	if err != nil {
		writeError(rw, err)
		return
	}
	rw.Success(InteractionResult{
		ID:      id,
		Changed: changed,
		Stats:   h.tracker.Stats(target, id, uid),
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request, target interaction.Target) {
	rw := NewResponseWriter(w, r)
	id, ok := h.resolveTarget(rw, r, target)
	if !ok {
		return
	}
	rw.Success(h.tracker.Stats(target, id, viewerID(r)))
}

// resolveTarget parses {id} and checks it exists in the published catalog.
func (h *Handler) resolveTarget(rw *ResponseWriter, r *http.Request, target interaction.Target) (uuid.UUID, bool) {
	id, ok := pathUUID(rw, r, "id")
	if !ok {
		return uuid.Nil, false
	}
	snap := h.catalog.Snapshot()
	switch target {
	case interaction.TargetEpisode:
		if snap.FindEpisode(id) == nil {
			writeError(rw, ErrEpisodeNotFound)
			return uuid.Nil, false
		}
	default:
		if snap.Find(id) == nil {
			writeError(rw, ErrContentNotFound)
			return uuid.Nil, false
		}
	}
	return id, true
}

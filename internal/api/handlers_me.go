// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/unistream/internal/models"
	"github.com/tomtom215/unistream/internal/validation"
)

// MyListChange reports the outcome of a my-list mutation.
type MyListChange struct {
	ContentID uuid.UUID `json:"content_id"`
	Changed   bool      `json:"changed"`
	InMyList  bool      `json:"in_my_list"`
}

// SubscriptionsResponse is the body of GET /me/subscriptions.
type SubscriptionsResponse struct {
	Subscriptions []models.Subscription `json:"subscriptions"`
	MonthlyTotal  float64               `json:"monthly_total"`
}

// Me returns the signed-in user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	uid, ok := requireUser(rw, r)
	if !ok {
		return
	}
	user, err := h.accounts.CurrentUser(r.Context(), uid)
	if err != nil {
		writeError(rw, err)
		return
	}
	rw.Success(user)
}

// MyList returns the saved titles.
func (h *Handler) MyList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	uid, ok := requireUser(rw, r)
	if !ok {
		return
	}
	list, err := h.accounts.MyList(r.Context(), uid)
	if err != nil {
		writeError(rw, err)
		return
	}
	rw.SuccessList(list, len(list))
}

// AddToMyList saves a title from the published catalog.
func (h *Handler) AddToMyList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	uid, ok := requireUser(rw, r)
	if !ok {
		return
	}

	var req validation.MyListRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeError(rw, verr)
		return
	}
	contentID := uuid.MustParse(req.ContentID)

	c := h.catalog.Snapshot().Find(contentID)
	if c == nil {
		writeError(rw, ErrContentNotFound)
		return
	}
	changed, err := h.accounts.AddToMyList(r.Context(), uid, c)
	if err != nil {
		writeError(rw, err)
		return
	}
	change := MyListChange{ContentID: contentID, Changed: changed, InMyList: true}
	if changed {
		rw.Created(change)
		return
	}
	rw.Success(change)
}

// RemoveFromMyList drops a title. Removing an absent title succeeds with
// changed=false.
func (h *Handler) RemoveFromMyList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	uid, ok := requireUser(rw, r)
	if !ok {
		return
	}
	contentID, ok := pathUUID(rw, r, "contentID")
	if !ok {
		return
	}
	changed, err := h.accounts.RemoveFromMyList(r.Context(), uid, contentID)
	if err != nil {
		writeError(rw, err)
		return
	}
	rw.Success(MyListChange{ContentID: contentID, Changed: changed, InMyList: false})
}

// Comments returns the user's comments, optionally filtered with
// ?content_id=.
func (h *Handler) Comments(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	uid, ok := requireUser(rw, r)
	if !ok {
		return
	}

	var (
		comments []models.Comment
		err      error
	)
	if raw := r.URL.Query().Get("content_id"); raw != "" {
		contentID, perr := uuid.Parse(raw)
		if perr != nil {
			rw.ValidationError("Invalid content_id", map[string]interface{}{"field": "content_id", "tag": "uuid"})
			return
		}
		comments, err = h.accounts.CommentsFor(r.Context(), uid, contentID)
	} else {
		comments, err = h.accounts.Comments(r.Context(), uid)
	}
	if err != nil {
		writeError(rw, err)
		return
	}
	rw.SuccessList(comments, len(comments))
}

// AddComment records a comment on a title or one of its episodes.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	uid, ok := requireUser(rw, r)
	if !ok {
		return
	}

	var req validation.CommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeError(rw, verr)
		return
	}
	contentID := uuid.MustParse(req.ContentID)

	c := h.catalog.Snapshot().Find(contentID)
	if c == nil {
		writeError(rw, ErrContentNotFound)
		return
	}
	var episodeID *uuid.UUID
	if req.EpisodeID != "" {
		id := uuid.MustParse(req.EpisodeID)
		if c.Episode(id) == nil {
			writeError(rw, ErrEpisodeNotFound)
			return
		}
		episodeID = &id
	}

	comment, err := h.accounts.AddComment(r.Context(), uid, contentID, episodeID, req.Text)
	if err != nil {
		writeError(rw, err)
		return
	}
	rw.Created(comment)
}

// Subscriptions returns the user's plans and their monthly total.
func (h *Handler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	uid, ok := requireUser(rw, r)
	if !ok {
		return
	}
	subs, err := h.accounts.Subscriptions(r.Context(), uid)
	if err != nil {
		writeError(rw, err)
		return
	}
	rw.Success(SubscriptionsResponse{Subscriptions: subs, MonthlyTotal: models.MonthlyTotal(subs)})
}

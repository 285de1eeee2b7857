// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/validation"
)

// SignIn authenticates with email and password and returns a session.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req validation.SignInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeError(rw, verr)
		return
	}

	session, err := h.accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(rw, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("user_id", session.User.ID.String()).Msg("User signed in")
	rw.Success(session)
}

// SignUp registers an email account and returns a session.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req validation.SignUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeError(rw, verr)
		return
	}

	session, err := h.accounts.SignUp(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(rw, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("user_id", session.User.ID.String()).Msg("User signed up")
	rw.Created(session)
}

// SocialSignIn signs in through google, facebook or x.
func (h *Handler) SocialSignIn(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	session, err := h.accounts.SocialSignIn(r.Context(), chi.URLParam(r, "provider"))
	if err != nil {
		writeError(rw, err)
		return
	}
	logging.Ctx(r.Context()).Info().
		Str("user_id", session.User.ID.String()).
		Str("provider", session.User.Provider).
		Msg("User signed in")
	rw.Success(session)
}

// SignOut ends the session and clears the user's state. Registered
// credentials survive.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	uid, ok := requireUser(rw, r)
	if !ok {
		return
	}
	if err := h.accounts.SignOut(r.Context(), uid); err != nil {
		writeError(rw, err)
		return
	}
	rw.NoContent()
}

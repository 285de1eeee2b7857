// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package validation

// Request bodies and query parameters accepted by the API.
//
// Credential rules ("@" in the email, minimum password length) belong to
// the authenticator so that its user-facing messages are preserved; the
// tags here only bound sizes.

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// SignUpRequest is the body of POST /auth/signup.
type SignUpRequest struct {
	Username string `json:"username" validate:"omitempty,max=50"`
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// MyListRequest is the body of POST /me/list.
type MyListRequest struct {
	ContentID string `json:"content_id" validate:"required,uuid"`
}

// CommentRequest is the body of POST /me/comments.
type CommentRequest struct {
	ContentID string `json:"content_id" validate:"required,uuid"`
	EpisodeID string `json:"episode_id" validate:"omitempty,uuid"`
	Text      string `json:"text" validate:"required,max=2000"`
}

// SearchRequest holds the query parameters of GET /catalog/search.
type SearchRequest struct {
	Query    string `json:"q" validate:"max=200"`
	Category string `json:"category" validate:"omitempty,category"`
}

// ServiceRequest holds the path parameter of GET /catalog/services/{service}.
type ServiceRequest struct {
	Service string `json:"service" validate:"required,service"`
}

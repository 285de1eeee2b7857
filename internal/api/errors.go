// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/unistream/internal/account"
	"github.com/tomtom215/unistream/internal/auth"
	"github.com/tomtom215/unistream/internal/persistence"
	"github.com/tomtom215/unistream/internal/validation"
)

// Common API errors
var (
	// ErrContentNotFound is returned when an ID is absent from the
	// published catalog.
	ErrContentNotFound = errors.New("content not found")

	// ErrEpisodeNotFound is returned when an episode ID is unknown or does
	// not belong to the referenced content.
	ErrEpisodeNotFound = errors.New("episode not found")
)

var authErrorCodes = map[string]string{
	auth.ErrInvalidCredentials.Code: ErrCodeInvalidCredentials,
	auth.ErrInvalidEmail.Code:       ErrCodeInvalidEmail,
	auth.ErrWeakPassword.Code:       ErrCodeWeakPassword,
	auth.ErrNetwork.Code:            ErrCodeNetworkError,
	auth.ErrEmailTaken.Code:         ErrCodeEmailTaken,
}

// writeError maps domain errors to status codes. Anything unrecognized
// is logged and reported as a storage failure.
func writeError(rw *ResponseWriter, err error) {
	var authErr *auth.Error
	var reqErr *validation.RequestValidationError

	switch {
	case errors.As(err, &authErr):
		status := http.StatusBadRequest
		switch authErr {
		case auth.ErrInvalidCredentials:
			status = http.StatusUnauthorized
		case auth.ErrNetwork:
			status = http.StatusServiceUnavailable
		case auth.ErrEmailTaken:
			status = http.StatusConflict
		}
		code, ok := authErrorCodes[authErr.Code]
		if !ok {
			code = ErrCodeBadRequest
		}
		rw.Error(status, code, authErr.Message)
	case errors.As(err, &reqErr):
		apiErr := reqErr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
	case errors.Is(err, account.ErrNotSignedIn):
		rw.Unauthorized("Sign in required")
	case errors.Is(err, account.ErrEmptyComment):
		rw.ValidationError("Comment text must not be empty", map[string]interface{}{"field": "text", "tag": "required"})
	case errors.Is(err, ErrContentNotFound):
		rw.NotFound("Content not found")
	case errors.Is(err, ErrEpisodeNotFound):
		rw.NotFound("Episode not found")
	case errors.Is(err, persistence.ErrNotFound):
		rw.NotFound("Not found")
	default:
		rw.StorageError(err)
	}
}

// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/unistream/internal/account"
	"github.com/tomtom215/unistream/internal/auth"
	"github.com/tomtom215/unistream/internal/persistence"
	"github.com/tomtom215/unistream/internal/validation"
)

func TestWriteError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeInvalidCredentials, auth.ErrInvalidCredentials.Message},
		{"invalid email", auth.ErrInvalidEmail, http.StatusBadRequest, ErrCodeInvalidEmail, auth.ErrInvalidEmail.Message},
		{"weak password", auth.ErrWeakPassword, http.StatusBadRequest, ErrCodeWeakPassword, auth.ErrWeakPassword.Message},
		{"email taken", auth.ErrEmailTaken, http.StatusConflict, ErrCodeEmailTaken, auth.ErrEmailTaken.Message},
		{"network", auth.ErrNetwork, http.StatusServiceUnavailable, ErrCodeNetworkError, auth.ErrNetwork.Message},
		{"not signed in", fmt.Errorf("load: %w", account.ErrNotSignedIn), http.StatusUnauthorized, ErrCodeUnauthorized, ""},
		{"empty comment", account.ErrEmptyComment, http.StatusBadRequest, ErrCodeValidationFailed, ""},
		{"content", ErrContentNotFound, http.StatusNotFound, ErrCodeNotFound, ""},
		{"persistence not found", persistence.ErrNotFound, http.StatusNotFound, ErrCodeNotFound, ""},
		{"validation", validation.ValidateStruct(&validation.MyListRequest{}), http.StatusBadRequest, ErrCodeValidationFailed, ""},
		{"other", errors.New("disk full"), http.StatusInternalServerError, ErrCodeStorageError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			writeError(NewResponseWriter(rec, req), tt.err)

			checkErrorCode(t, rec, tt.status, tt.code)
			if tt.message != "" {
				if got := decodeEnvelope(t, rec).Error.Message; got != tt.message {
					t.Errorf("message = %q, want %q", got, tt.message)
				}
			}
		})
	}
}

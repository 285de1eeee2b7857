// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/unistream/internal/logging"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	// Success indicates whether the request was successful
	Success bool `json:"success"`

	// Data contains the response payload (null on error)
	Data interface{} `json:"data,omitempty"`

	// Error contains error details (null on success)
	Error *APIError `json:"error,omitempty"`

	// Meta contains optional metadata about the response
	Meta *APIMeta `json:"meta,omitempty"`
}

// APIError represents an error response.
type APIError struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains additional error details (optional)
	Details interface{} `json:"details,omitempty"`

	// RequestID is the request ID for tracing
	RequestID string `json:"request_id,omitempty"`
}

// APIMeta contains optional response metadata.
type APIMeta struct {
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms,omitempty"`

	// Count is the number of items in list responses
	Count *int `json:"count,omitempty"`
}

// Error codes for API responses
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeTooManyRequests     = "TOO_MANY_REQUESTS"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	ErrCodeValidationFailed    = "VALIDATION_ERROR"
	ErrCodeStorageError        = "STORAGE_ERROR"
	ErrCodeExternalServiceFail = "EXTERNAL_SERVICE_FAILED"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeInvalidEmail        = "INVALID_EMAIL"
	ErrCodeWeakPassword        = "WEAK_PASSWORD"
	ErrCodeNetworkError        = "NETWORK_ERROR"
	ErrCodeEmailTaken          = "EMAIL_TAKEN"
	ErrCodeCatalogNotLoaded    = "CATALOG_NOT_LOADED"
)

// ResponseWriter provides methods for writing standardized API responses.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a new response writer.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{
		w:         w,
		r:         r,
		startTime: time.Now(),
	}
}

func (rw *ResponseWriter) meta() *APIMeta {
	return &APIMeta{
		Timestamp:  time.Now(),
		DurationMs: time.Since(rw.startTime).Milliseconds(),
		RequestID:  logging.RequestIDFromContext(rw.r.Context()),
	}
}

// Success writes a 200 response with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.write(http.StatusOK, data, nil)
}

// SuccessList writes a 200 response carrying the item count in meta.
func (rw *ResponseWriter) SuccessList(data interface{}, count int) {
	rw.write(http.StatusOK, data, &count)
}

// Created writes a 201 Created response.
func (rw *ResponseWriter) Created(data interface{}) {
	rw.write(http.StatusCreated, data, nil)
}

// Accepted writes a 202 Accepted response.
func (rw *ResponseWriter) Accepted(data interface{}) {
	rw.write(http.StatusAccepted, data, nil)
}

// NoContent writes a 204 No Content response.
func (rw *ResponseWriter) NoContent() {
	rw.w.WriteHeader(http.StatusNoContent)
}

func (rw *ResponseWriter) write(status int, data interface{}, count *int) {
	meta := rw.meta()
	meta.Count = count
	rw.writeJSON(status, APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// Error writes an error response with the given status code.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error response with additional details.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details interface{}) {
	meta := rw.meta()
	rw.writeJSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: meta.RequestID,
		},
		Meta: meta,
	})
}

// BadRequest writes a 400 Bad Request error.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// Unauthorized writes a 401 Unauthorized error.
func (rw *ResponseWriter) Unauthorized(message string) {
	rw.Error(http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// NotFound writes a 404 Not Found error.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// Conflict writes a 409 Conflict error.
func (rw *ResponseWriter) Conflict(message string) {
	rw.Error(http.StatusConflict, ErrCodeConflict, message)
}

// TooManyRequests writes a 429 Too Many Requests error.
func (rw *ResponseWriter) TooManyRequests(message string) {
	rw.Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, message)
}

// InternalError writes a 500 Internal Server Error.
func (rw *ResponseWriter) InternalError(message string) {
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, message)
}

// ServiceUnavailable writes a 503 Service Unavailable error.
func (rw *ResponseWriter) ServiceUnavailable(message string) {
	rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// ValidationError writes a 400 error with validation details.
func (rw *ResponseWriter) ValidationError(message string, validationErrors interface{}) {
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, message, validationErrors)
}

// StorageError writes a 500 error for persistence failures.
func (rw *ResponseWriter) StorageError(err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Storage error")
	rw.Error(http.StatusInternalServerError, ErrCodeStorageError, "A storage error occurred")
}

// ExternalServiceError writes a 502 error for upstream failures.
func (rw *ResponseWriter) ExternalServiceError(service string, err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Str("service", service).Msg("External service error")
	rw.Error(http.StatusBadGateway, ErrCodeExternalServiceFail, "External service unavailable: "+service)
}

// writeJSON writes JSON response with proper headers.
func (rw *ResponseWriter) writeJSON(statusCode int, data interface{}) {
	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

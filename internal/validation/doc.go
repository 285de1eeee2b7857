// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built on first use and caches struct
// metadata. Error field names come from json tags so messages match what
// clients sent. Two custom tags are registered:
//
//   - category: accepts any value models.ParseCategory understands
//   - service: accepts any value models.ParseStreamingService understands
//
// # Usage
//
//	var req validation.SignInRequest
//	if err := json.NewDecoder(r.Body).Decode(&req); err != nil { ... }
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation

// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package persistence

import (
	"strings"

	"github.com/google/uuid"
)

// Key prefixes
const (
	authKeyPrefix       = "auth:"
	userKeyPrefix       = "user:"
	myListKeyPrefix     = "mylist:"
	commentsKeyPrefix   = "comments:"
	credentialKeyPrefix = "credential:"
	interactionsKey     = "interactions"
)

func userKeys(userID uuid.UUID) []string {
	id := userID.String()
	return []string{authKeyPrefix + id, userKeyPrefix + id, myListKeyPrefix + id, commentsKeyPrefix + id}
}

// NormalizeEmail lowercases and trims an email for use as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package tmdb

import (
	"errors"
	"testing"
)

// checkNoError fails the test if err is non-nil
func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// checkErrorIs checks that err wraps target
func checkErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected error wrapping %v, got %v", target, err)
	}
}

// checkStringEqual checks that got equals want
func checkStringEqual(t *testing.T, fieldName, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, got)
	}
}

// checkIntEqual checks that got equals want
func checkIntEqual(t *testing.T, fieldName string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

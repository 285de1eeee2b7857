// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

/*
Package auth provides identity and session tokens.

Key Components:

  - Authenticator: email/password sign-in and sign-up, and social sign-in
  - MockAuthenticator: the shipped implementation. Email credentials are
    bcrypt-hashed at sign-up and checked at sign-in; social providers
    return fixed mock identities.
  - TokenManager: HS256 JWT session tokens carrying the user ID and name

Failures are *Error values with a stable Code for API responses and a
user-facing Message:

	ident, err := authn.SignIn(ctx, email, password)
	var authErr *auth.Error
	if errors.As(err, &authErr) {
	    // authErr.Code == "invalid_credentials"
	}

User IDs are derived from the sign-in identity (email or social
provider), so the same person signing in again maps to the same stored
user state.
*/
package auth

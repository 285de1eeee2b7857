// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

/*
Package api provides the HTTP API of Unistream.

Routes are mounted on a chi router under /api/v1. Every JSON response uses
the APIResponse envelope:

	{"success": true, "data": ..., "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "..."}}

Handler methods are split across files by area:
  - handlers.go: Handler struct, constructor, shared helpers
  - handlers_catalog.go: snapshot, collections, search, services, reload
  - handlers_auth.go: sign-in, sign-up, social sign-in, sign-out
  - handlers_me.go: profile, my-list, comments, subscriptions
  - handlers_interaction.go: likes, watch marks and stats
  - handlers_health.go: health and the websocket endpoint

Authentication uses bearer JWTs issued by the sign-in endpoints. A token
is accepted only while the user's persisted auth flag is set, so signing
out revokes every token issued before it.

Rate limiting is per client IP through httprate; sign-in endpoints and
catalog reloads have stricter budgets than the rest of the API.
*/
package api

// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

/*
Package models defines the data structures shared across Unistream.

Domain models:

  - Content: a movie or show, the root of the catalog graph
  - Episode: a show episode with a non-owning back-reference to its Content
  - Comment: a user note attached to a Content (optionally an Episode)
  - StreamingService: closed set of distribution services plus In Theaters
  - Category: closed genre taxonomy plus the UI-only "all" filter
  - User, Subscription: user-state records persisted per account

Provider models (tmdb.go) mirror the metadata provider's JSON and are
only consumed transiently by the catalog pipeline.

Content owns its Episodes and Comments. Episode.Parent is never
serialized; Episode.ParentID carries the link across JSON round trips and
Content.LinkEpisodes restores the pointers after decoding.
*/
package models

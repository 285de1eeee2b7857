// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

/*
Package catalog turns raw metadata-provider pages into the application's
content graph and publishes the result.

Pipeline:

	Store.Load
	  └─ Assembler.FetchPage(endpoint)           one page, first N items
	       └─ per item, concurrently:
	            ServiceResolver.Resolve          provider IDs → patterns → default
	            MapGenres                        genre IDs → Category
	            EpisodeAggregator.Aggregate      shows only, first 3 seasons

Failure containment:
  - ServiceResolver never fails; a provider lookup error counts as an
    empty provider list.
  - EpisodeAggregator skips failed seasons. Only a failed show-detail
    fetch is reported, and the assembler answers it with placeholder
    episodes.
  - Assembler is all-or-nothing per page.
  - Store contains page failures: the previous snapshot stays published
    and LastError reports what went wrong.

Identifiers are generated fresh on every assembly. Two loads of the same
provider page produce equal content with different IDs.
*/
package catalog

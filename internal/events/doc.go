// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

/*
Package events is the in-process event bus that decouples catalog loads
from the components reacting to them.

The bus is a Watermill router over a GoChannel pub/sub. Every consumer
handler runs behind the same middleware chain (outermost first):

  - PoisonQueue: after retries are exhausted the message is copied to
    TopicPoison and acked, so GoChannel never redelivers it forever
  - Retry: exponential backoff for transient handler failures
  - Recoverer: handler panics become errors (and are retried)

Usage:

	bus, err := events.NewBus(events.DefaultBusConfig(), logging.WithComponent("events"))
	bus.SubscribeCatalogLoaded("websocket-broadcast", hub.OnCatalogLoaded)
	store.Observe(bus.PublishCatalogLoad)
	tree.AddMessagingService(services.NewEventBusService(bus))

Handlers must be registered before Run.
*/
package events

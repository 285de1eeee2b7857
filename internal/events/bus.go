// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/unistream/internal/catalog"
	"github.com/tomtom215/unistream/internal/metrics"
)

// BusConfig configures the router and its retry policy.
type BusConfig struct {
	// CloseTimeout bounds how long Run waits for in-flight handlers on
	// shutdown.
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// OutputBuffer is the per-subscriber GoChannel buffer.
	OutputBuffer int64
}

// DefaultBusConfig returns production defaults.
func DefaultBusConfig() BusConfig {
	return BusConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		RetryMultiplier:      2.0,
		OutputBuffer:         64,
	}
}

// CatalogLoadedHandler consumes TopicCatalogLoaded.
type CatalogLoadedHandler func(ctx context.Context, ev CatalogLoaded) error

// Bus publishes and routes domain events inside the process.
type Bus struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	logger zerolog.Logger
}

// NewBus creates the pub/sub, the router and its middleware chain, and
// registers the poison queue logger.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBus(cfg BusConfig, logger zerolog.Logger) (*Bus, error) {
	def := DefaultBusConfig()
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = def.CloseTimeout
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = def.RetryInitialInterval
	}
	if cfg.RetryMultiplier <= 0 {
		cfg.RetryMultiplier = def.RetryMultiplier
	}
	if cfg.OutputBuffer <= 0 {
		cfg.OutputBuffer = def.OutputBuffer
	}

	wmLogger := NewLoggerAdapter(logger)
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.OutputBuffer,
	}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create event router: %w", err)
	}

	poison, err := middleware.PoisonQueue(pubsub, TopicPoison)
	if err != nil {
		return nil, fmt.Errorf("create poison queue middleware: %w", err)
	}
	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          wmLogger,
	}
	router.AddMiddleware(poison, retry.Middleware, middleware.Recoverer)

	b := &Bus{pubsub: pubsub, router: router, logger: logger}
	router.AddConsumerHandler("poison-log", TopicPoison, pubsub, b.logPoisoned)
	return b, nil
}

// Publish encodes payload as JSON and publishes it on topic.
func (b *Bus) Publish(topic string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		metrics.EventsPublished.WithLabelValues(topic, "error").Inc()
		return fmt.Errorf("encode %s event: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), raw)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		metrics.EventsPublished.WithLabelValues(topic, "error").Inc()
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	metrics.EventsPublished.WithLabelValues(topic, "ok").Inc()
	return nil
}

// PublishCatalogLoad is a catalog.Observer. Publishing never blocks the
// catalog store; a failure is logged and the event dropped.
func (b *Bus) PublishCatalogLoad(ev catalog.LoadEvent) {
	if err := b.Publish(TopicCatalogLoaded, FromLoadEvent(ev)); err != nil {
		b.logger.Warn().Err(err).Msg("dropping catalog load event")
	}
}

// SubscribeCatalogLoaded registers fn under name. It must be called
// before Run.
func (b *Bus) SubscribeCatalogLoaded(name string, fn CatalogLoadedHandler) {
	b.router.AddConsumerHandler(name, TopicCatalogLoaded, b.pubsub, func(msg *message.Message) error {
		var ev CatalogLoaded
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			// A malformed payload will never decode; ack it.
			b.logger.Error().Err(err).Str("handler", name).Str("message_uuid", msg.UUID).Msg("undecodable catalog event")
			metrics.EventsHandled.WithLabelValues(name, "error").Inc()
			return nil
		}
		if err := fn(msg.Context(), ev); err != nil {
			metrics.EventsHandled.WithLabelValues(name, "error").Inc()
			return err
		}
		metrics.EventsHandled.WithLabelValues(name, "ok").Inc()
		return nil
	})
}

// Run starts the router and blocks until ctx is canceled, then closes
// the pub/sub.
func (b *Bus) Run(ctx context.Context) error {
	err := b.router.Run(ctx)
	if cerr := b.pubsub.Close(); cerr != nil {
		b.logger.Warn().Err(cerr).Msg("closing event pub/sub")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("event router: %w", err)
	}
	return ctx.Err()
}

// Running is closed once every handler is subscribed.
func (b *Bus) Running() chan struct{} {
	return b.router.Running()
}

// IsRunning reports whether the router has started and not yet closed.
func (b *Bus) IsRunning() bool {
	return b.router.IsRunning()
}

func (b *Bus) logPoisoned(msg *message.Message) error {
	reason := msg.Metadata.Get(middleware.ReasonForPoisonedKey)
	b.logger.Error().
		Str("message_uuid", msg.UUID).
		Str("reason", reason).
		Msg("event handler gave up after retries")
	metrics.EventsHandled.WithLabelValues("poison-log", "poisoned").Inc()
	return nil
}

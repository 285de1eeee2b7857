// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"
)

// EventRouter matches *events.Bus.
type EventRouter interface {
	Run(ctx context.Context) error
}

// EventBusService runs the in-process event router.
//
// A Watermill router cannot be started twice, so a router failure is
// reported with suture.ErrDoNotRestart rather than looping on restarts.
type EventBusService struct {
	bus  EventRouter
	name string
}

// NewEventBusService creates the service.
func NewEventBusService(bus EventRouter) *EventBusService {
	return &EventBusService{
		bus:  bus,
		name: "event-bus",
	}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	err := s.bus.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		return suture.ErrDoNotRestart
	}
	return fmt.Errorf("%w: %w", suture.ErrDoNotRestart, err)
}

// String implements fmt.Stringer.
func (s *EventBusService) String() string {
	return s.name
}

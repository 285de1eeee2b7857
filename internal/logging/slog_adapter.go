// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

// SlogHandler is an slog.Handler that writes through zerolog. The suture
// supervisor only accepts an *slog.Logger (via sutureslog), and this keeps
// its restart and backoff events in the same stream as everything else.
type SlogHandler struct {
	logger zerolog.Logger
	attrs  []slog.Attr // keys already carry the group prefix
	prefix string
}

// NewSlogHandler wraps the current global logger.
func NewSlogHandler() *SlogHandler {
	return &SlogHandler{logger: Logger()}
}

// NewSlogLogger is slog.New(NewSlogHandler()).
func NewSlogLogger() *slog.Logger {
	return slog.New(NewSlogHandler())
}

// Enabled implements slog.Handler.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	zl := toZerologLevel(level)
	return zl >= h.logger.GetLevel() && zl >= zerolog.GlobalLevel()
}

// Handle implements slog.Handler.
//
//nolint:gocritic // slog.Record is passed by value per the interface
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	event := h.logger.WithLevel(toZerologLevel(record.Level))
	for _, a := range h.attrs {
		event = appendAttr(event, "", a)
	}
	record.Attrs(func(a slog.Attr) bool {
		event = appendAttr(event, h.prefix, a)
		return true
	})
	event.Msg(record.Message)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		merged = append(merged, a)
	}
	return &SlogHandler{logger: h.logger, attrs: merged, prefix: h.prefix}
}

// WithGroup implements slog.Handler. Groups become dotted key prefixes.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &SlogHandler{logger: h.logger, attrs: h.attrs, prefix: h.prefix + name + "."}
}

func appendAttr(event *zerolog.Event, prefix string, a slog.Attr) *zerolog.Event {
	key := prefix + a.Key
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return event.Str(key, v.String())
	case slog.KindInt64:
		return event.Int64(key, v.Int64())
	case slog.KindUint64:
		return event.Uint64(key, v.Uint64())
	case slog.KindFloat64:
		return event.Float64(key, v.Float64())
	case slog.KindBool:
		return event.Bool(key, v.Bool())
	case slog.KindDuration:
		return event.Dur(key, v.Duration())
	case slog.KindTime:
		return event.Time(key, v.Time())
	case slog.KindGroup:
		groupPrefix := key + "."
		if a.Key == "" {
			groupPrefix = prefix
		}
		for _, ga := range v.Group() {
			event = appendAttr(event, groupPrefix, ga)
		}
		return event
	default:
		if err, ok := v.Any().(error); ok {
			return event.AnErr(key, err)
		}
		return event.Interface(key, v.Any())
	}
}

func toZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// levelName is used by tests to compare without importing zerolog constants.
func levelName(level slog.Level) string {
	return strings.ToLower(toZerologLevel(level).String())
}

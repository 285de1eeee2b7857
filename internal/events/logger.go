// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// zerologAdapter routes Watermill's router and pub/sub logs into zerolog.
// Watermill's info level is chatty (one line per handler start), so it is
// logged at debug.
type zerologAdapter struct {
	logger zerolog.Logger
}

var _ watermill.LoggerAdapter = zerologAdapter{}

// NewLoggerAdapter wraps logger as a watermill.LoggerAdapter.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoggerAdapter(logger zerolog.Logger) watermill.LoggerAdapter {
	return zerologAdapter{logger: logger}
}

func (a zerologAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

func (a zerologAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (a zerologAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (a zerologAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Trace().Fields(map[string]interface{}(fields)).Msg(msg)
}

func (a zerologAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return zerologAdapter{logger: a.logger.With().Fields(map[string]interface{}(fields)).Logger()}
}

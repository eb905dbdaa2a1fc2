// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package zerolog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mia-platform/logkit"
)

const (
	tagKey = "tag"
)

var _ logkit.Adapter = &Adapter{}

// Adapter writes every event on a zerolog.Logger.
type Adapter struct {
	id     string
	logger zerolog.Logger
}

// New returns an adapter writing on logger.
func New(id string, logger zerolog.Logger) *Adapter {
	return &Adapter{
		id:     id,
		logger: logger,
	}
}

// ID implements logkit.Adapter.
func (a *Adapter) ID() string {
	return a.id
}

// Log implements logkit.Adapter.
func (a *Adapter) Log(_ context.Context, level logkit.Level, tag string, message string) error {
	zlvl := mapLevel(level)
	// avoid allocating the event when the logger would drop it
	if zlvl < a.logger.GetLevel() {
		return nil
	}

	a.logger.WithLevel(zlvl).Str(tagKey, tag).Msg(message)
	return nil
}

func mapLevel(level logkit.Level) zerolog.Level {
	switch level {
	case logkit.DEBUG:
		return zerolog.DebugLevel
	case logkit.INFO:
		return zerolog.InfoLevel
	case logkit.WARN:
		return zerolog.WarnLevel
	case logkit.ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}

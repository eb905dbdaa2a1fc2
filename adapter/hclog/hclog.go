// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package hclog

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/mia-platform/logkit"
)

const (
	tagKey = "tag"
)

var _ logkit.Adapter = &Adapter{}

// Adapter logs every event on an hclog.Logger with the tag as a key value pair.
type Adapter struct {
	id     string
	logger hclog.Logger
}

// New returns an adapter writing on logger; nil discards everything.
func New(id string, logger hclog.Logger) *Adapter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

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
	a.logger.Log(mapLevel(level), message, tagKey, tag)
	return nil
}

func mapLevel(level logkit.Level) hclog.Level {
	switch level {
	case logkit.DEBUG:
		return hclog.Debug
	case logkit.INFO:
		return hclog.Info
	case logkit.WARN:
		return hclog.Warn
	case logkit.ERROR:
		return hclog.Error
	default:
		return hclog.Info
	}
}

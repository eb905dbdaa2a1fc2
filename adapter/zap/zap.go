// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package zap

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mia-platform/logkit"
)

const (
	tagKey = "tag"
)

var _ logkit.Adapter = &Adapter{}

// Adapter writes every event on a zap.Logger.
type Adapter struct {
	id     string
	logger *zap.Logger
}

// New returns an adapter writing on logger; nil discards everything.
func New(id string, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
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
	if ce := a.logger.Check(toZapLevel(level), message); ce != nil {
		ce.Write(zap.String(tagKey, tag))
	}
	return nil
}

// Sync flushes the buffered entries of the underlying logger.
func (a *Adapter) Sync() error {
	return a.logger.Sync()
}

func toZapLevel(level logkit.Level) zapcore.Level {
	switch level {
	case logkit.DEBUG:
		return zapcore.DebugLevel
	case logkit.INFO:
		return zapcore.InfoLevel
	case logkit.WARN:
		return zapcore.WarnLevel
	case logkit.ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package capture

import (
	"context"
	"errors"

	"github.com/mia-platform/logkit"
)

const (
	// DefaultID is the id used by Register.
	DefaultID = "crashlytics"

	integrationTag = "CrashlyticsIntegration"
)

var (
	// ErrMissingRecorder is returned by Register when no recorder is available.
	ErrMissingRecorder = errors.New("crash reporter not available")
)

var _ logkit.Adapter = &Adapter{}

// Recorder is the subset of a crash reporter client used by the adapter.
type Recorder interface {
	// RecordError records a non fatal error.
	RecordError(ctx context.Context, err error) error
	// Log attaches a message to the next crash report.
	Log(ctx context.Context, message string) error
}

// Error is the error handed to Recorder.RecordError for captured levels.
type Error struct {
	Level   logkit.Level
	Tag     string
	Message string
}

func (e *Error) Error() string {
	return "[" + e.Tag + "] " + e.Message
}

// Adapter records the levels listed in the live ErrorsToCapture as errors and logs
// everything else.
type Adapter struct {
	id       string
	recorder Recorder
	config   logkit.ConfigSource
}

// New returns an adapter for recorder. The capture set is read from config on
// every event; a nil config falls back to the default Logger.
func New(id string, recorder Recorder, config logkit.ConfigSource) *Adapter {
	if config == nil {
		config = logkit.Default()
	}

	return &Adapter{
		id:       id,
		recorder: recorder,
		config:   config,
	}
}

// Register adds a capture adapter with DefaultID to l. When recorder is nil the
// integration is skipped with a warning on l.
func Register(l *logkit.Logger, recorder Recorder) error {
	if recorder == nil {
		l.Warn(integrationTag, "[logkit] Crash reporter not available. Skipping integration. Error:", ErrMissingRecorder)
		return ErrMissingRecorder
	}

	return l.RegisterAdapter(New(DefaultID, recorder, l))
}

// ID implements logkit.Adapter.
func (a *Adapter) ID() string {
	return a.id
}

// Log implements logkit.Adapter.
func (a *Adapter) Log(ctx context.Context, level logkit.Level, tag string, message string) error {
	captured := &Error{Level: level, Tag: tag, Message: message}
	if a.config.Config().Captures(level) {
		return a.recorder.RecordError(ctx, captured)
	}

	return a.recorder.Log(ctx, captured.Error())
}

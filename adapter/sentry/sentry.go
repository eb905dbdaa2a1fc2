// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sentry

import (
	"context"
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/trickstertwo/xclock"

	"github.com/mia-platform/logkit"
)

const (
	// DefaultID is the id used by Register.
	DefaultID = "sentry"

	integrationTag = "SentryIntegration"
)

var (
	// ErrNotInitialized is returned by Register when the Sentry SDK has no client.
	ErrNotInitialized = errors.New("sentry client not initialized")
)

var _ logkit.Adapter = &Adapter{}

// Hub is the subset of *sentry.Hub used by the adapter.
type Hub interface {
	CaptureMessage(message string) *sentry.EventID
	AddBreadcrumb(breadcrumb *sentry.Breadcrumb, hint *sentry.BreadcrumbHint)
	WithScope(f func(scope *sentry.Scope))
}

// Adapter sends captured levels to Sentry as error messages and records the
// other levels as breadcrumbs.
type Adapter struct {
	id     string
	hub    Hub
	config logkit.ConfigSource
}

// New returns an adapter bound to hub, or to the current Sentry hub when nil.
// A nil config falls back to the default Logger.
func New(id string, hub Hub, config logkit.ConfigSource) *Adapter {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if config == nil {
		config = logkit.Default()
	}

	return &Adapter{
		id:     id,
		hub:    hub,
		config: config,
	}
}

// Register adds a Sentry adapter with DefaultID to l, using the current hub.
// The integration is skipped with a warning when sentry.Init has not been called.
func Register(l *logkit.Logger) error {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		l.Warn(integrationTag, "[logkit] Sentry not initialized. Skipping integration. Error:", ErrNotInitialized)
		return ErrNotInitialized
	}

	return l.RegisterAdapter(New(DefaultID, hub, l))
}

// ID implements logkit.Adapter.
func (a *Adapter) ID() string {
	return a.id
}

// Log implements logkit.Adapter.
func (a *Adapter) Log(_ context.Context, level logkit.Level, tag string, message string) error {
	if a.config.Config().Captures(level) {
		a.hub.WithScope(func(scope *sentry.Scope) {
			scope.SetLevel(sentry.LevelError)
			scope.SetTag("tag", tag)
			a.hub.CaptureMessage("[" + tag + "] " + message)
		})
		return nil
	}

	a.hub.AddBreadcrumb(&sentry.Breadcrumb{
		Category:  tag,
		Message:   message,
		Level:     sentryLevel(level),
		Timestamp: xclock.Now(),
	}, nil)
	return nil
}

func sentryLevel(level logkit.Level) sentry.Level {
	switch level {
	case logkit.DEBUG:
		return sentry.LevelDebug
	case logkit.INFO:
		return sentry.LevelInfo
	case logkit.WARN:
		return sentry.LevelWarning
	case logkit.ERROR:
		return sentry.LevelError
	default:
		return sentry.LevelInfo
	}
}

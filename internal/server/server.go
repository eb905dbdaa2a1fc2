// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/logkit"
	"github.com/mia-platform/logkit/fiberlog"
	"github.com/mia-platform/logkit/internal/info"
	"github.com/mia-platform/logkit/internal/logger"
)

const (
	// LogsPath is the route accepting the events shipped by the remote adapter.
	LogsPath = "/logs"

	loggerName     = "logkit:server"
	middlewareTag  = "Collector"
	statusPrefix   = "/-/"
	healthzPath    = "/-/healthz"
	readinessPath  = "/-/ready"
	healthyStatus  = "OK"
	badRequestText = "invalid log events"
)

var (
	ErrServerListen   = errors.New("server listen error")
	ErrServerShutdown = errors.New("server shutdown error")
)

// Server is the log collector lifecycle.
type Server interface {
	Start() error
	Stop() error
	StartAsync(ctx context.Context)
}

type impServer struct {
	config

	app  *fiber.App
	sink *logkit.Logger
}

// NewServer builds the collector; every accepted event is re-emitted on sink.
func NewServer(ctx context.Context, sink *logkit.Logger) (Server, error) {
	return newServer(ctx, sink)
}

func newServer(ctx context.Context, sink *logkit.Logger) (*impServer, error) {
	cfg, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	if sink == nil {
		sink = logkit.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               info.AppName,
		DisableStartupMessage: cfg.DisableStartupMessage,
		BodyLimit:             cfg.BodyLimit,
	})
	app.Use(fiberlog.New(fiberlog.Config{
		Logger:           sink,
		Tag:              middlewareTag,
		ExcludedPrefixes: []string{statusPrefix},
	}))

	srv := &impServer{
		config: *cfg,
		app:    app,
		sink:   sink,
	}
	statusRoutes(app, info.AppName, info.Version)
	app.Post(LogsPath, srv.collect(logger.FromContext(ctx).WithName(loggerName)))

	return srv, nil
}

func statusRoutes(app *fiber.App, serviceName, serviceVersion string) {
	status := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  healthyStatus,
			"name":    serviceName,
			"version": serviceVersion,
		})
	}
	app.Get(healthzPath, status)
	app.Get(readinessPath, status)
}

func (s *impServer) collect(log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		events, err := decodeEvents(c.Body())
		if err != nil {
			log.Debug("rejected payload", "error", err.Error())
			return badRequest(c, err)
		}
		if len(events) > s.MaxBatchSize {
			return badRequest(c, fmt.Errorf("%w: batch of %d events exceeds %d", logkit.ErrInvalidEvent, len(events), s.MaxBatchSize))
		}

		levels := make([]logkit.Level, len(events))
		for idx, event := range events {
			level, _, err := event.Validate()
			if err != nil {
				return badRequest(c, fmt.Errorf("event %d: %w", idx, err))
			}
			levels[idx] = level
		}

		for idx, event := range events {
			s.sink.Log(levels[idx], event.Tag, event.Message)
		}
		log.Trace("events collected", "count", len(events))
		return c.SendStatus(http.StatusNoContent)
	}
}

// decodeEvents accepts either a single event object or an array of events.
func decodeEvents(body []byte) ([]logkit.Event, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", logkit.ErrInvalidEvent)
	}

	if trimmed[0] == '[' {
		var events []logkit.Event
		if err := json.Unmarshal(trimmed, &events); err != nil {
			return nil, fmt.Errorf("%w: %w", logkit.ErrInvalidEvent, err)
		}
		return events, nil
	}

	var event logkit.Event
	if err := json.Unmarshal(trimmed, &event); err != nil {
		return nil, fmt.Errorf("%w: %w", logkit.ErrInvalidEvent, err)
	}
	return []logkit.Event{event}, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{
		"statusCode": http.StatusBadRequest,
		"error":      http.StatusText(http.StatusBadRequest),
		"message":    fmt.Sprintf("%s: %s", badRequestText, err.Error()),
	})
}

func (s *impServer) Start() error {
	if err := s.app.Listen(fmt.Sprintf("%s:%d", s.HTTPHost, s.HTTPPort)); err != nil {
		return fmt.Errorf("%w: %w", ErrServerListen, err)
	}
	return nil
}

func (s *impServer) Stop() error {
	if err := s.app.Shutdown(); err != nil {
		return fmt.Errorf("%w: %w", ErrServerShutdown, err)
	}
	return nil
}

func (s *impServer) StartAsync(ctx context.Context) {
	log := logger.FromContext(ctx).WithName(loggerName)
	go func() {
		if err := s.Start(); err != nil {
			log.Error(err.Error())
		}
	}()
}

// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fiberlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/trickstertwo/xclock"

	"github.com/mia-platform/logkit"
)

const (
	// RequestIDHeader carries the request id, read from the request when present
	// and always set on the response.
	RequestIDHeader = "x-request-id"

	// DefaultTag is the tag used when Config.Tag is empty.
	DefaultTag = "HTTP"

	IncomingRequestMessage  = "incoming request"
	RequestCompletedMessage = "request completed"

	requestIDLocalKey = "logkit-request-id"
)

// Config customizes the middleware.
type Config struct {
	// Logger owning the middleware channel, the default Logger when nil.
	Logger *logkit.Logger
	// Tag passed to the middleware channel.
	Tag string
	// ExcludedPrefixes lists request paths that are not logged.
	ExcludedPrefixes []string
}

type fiberLoggingContext struct {
	c          *fiber.Ctx
	handlerErr error
}

func (flc *fiberLoggingContext) header(key string) string {
	return flc.c.Get(key, "")
}

func (flc *fiberLoggingContext) uri() string {
	return string(flc.c.Request().URI().RequestURI())
}

func (flc *fiberLoggingContext) method() string {
	return flc.c.Method()
}

func (flc *fiberLoggingContext) fiberError() *fiber.Error {
	if fiberErr, ok := flc.handlerErr.(*fiber.Error); flc.handlerErr != nil && ok {
		return fiberErr
	}
	return nil
}

func (flc *fiberLoggingContext) bodySize() int {
	if fiberErr := flc.fiberError(); fiberErr != nil {
		return len(fiberErr.Error())
	}

	if content := flc.c.GetRespHeader("Content-Length"); content != "" {
		if length, err := strconv.Atoi(content); err == nil {
			return length
		}
	}
	return len(flc.c.Response().Body())
}

func (flc *fiberLoggingContext) statusCode() int {
	if fiberErr := flc.fiberError(); fiberErr != nil {
		return fiberErr.Code
	}

	return flc.c.Response().StatusCode()
}

func (flc *fiberLoggingContext) requestID() string {
	if requestID := flc.header(RequestIDHeader); requestID != "" {
		return requestID
	}
	// Generate a random uuid string. e.g. 16c9c1f2-c001-40d3-bbfe-48857367e7b5
	requestID, err := uuid.NewRandom()
	if err != nil {
		panic(fmt.Errorf("error generating request id: %w", err))
	}
	return requestID.String()
}

// New returns a fiber middleware that reports every request on the middleware
// channel: once when it comes in and once when it completes, with its latency.
func New(cfg Config) fiber.Handler {
	tag := cfg.Tag
	if tag == "" {
		tag = DefaultTag
	}

	return func(fiberCtx *fiber.Ctx) error {
		l := cfg.Logger
		if l == nil {
			l = logkit.Default()
		}

		flc := &fiberLoggingContext{c: fiberCtx}
		for _, prefix := range cfg.ExcludedPrefixes {
			if strings.HasPrefix(flc.uri(), prefix) {
				return fiberCtx.Next()
			}
		}

		requestID := flc.requestID()
		fiberCtx.Locals(requestIDLocalKey, requestID)
		fiberCtx.Set(RequestIDHeader, requestID)

		start := xclock.Now()
		l.Middleware().Log(tag, fmt.Sprintf("%s %s %s [%s]", IncomingRequestMessage, flc.method(), flc.uri(), requestID))

		err := fiberCtx.Next()
		flc.handlerErr = err

		elapsed := float64(xclock.Now().Sub(start)) / float64(time.Millisecond)
		l.Middleware().Log(tag, fmt.Sprintf("%s %s %s %d %dB in %.2fms [%s]",
			RequestCompletedMessage, flc.method(), flc.uri(), flc.statusCode(), flc.bodySize(), elapsed, requestID))

		return err
	}
}

// RequestID returns the id assigned by the middleware to the current request.
func RequestID(c *fiber.Ctx) string {
	if requestID, ok := c.Locals(requestIDLocalKey).(string); ok {
		return requestID
	}
	return ""
}

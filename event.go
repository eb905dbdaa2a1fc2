// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logkit

import (
	"errors"
	"fmt"
	"time"
)

const (
	eventTimestampLayout = "2006-01-02T15:04:05.000Z"
)

var (
	// ErrInvalidEvent is returned by Event.Validate.
	ErrInvalidEvent = errors.New("invalid event")
)

// Event is the wire representation of a log event shipped to remote sinks.
type Event struct {
	Level     string `json:"level"`
	Tag       string `json:"tag"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewEvent builds the wire event for a delivery happening at the instant at.
func NewEvent(level Level, tag string, message string, at time.Time) Event {
	return Event{
		Level:     level.String(),
		Tag:       tag,
		Message:   message,
		Timestamp: at.UTC().Format(eventTimestampLayout),
	}
}

// Validate checks that the event carries an emittable level and a parsable
// timestamp, and returns the parsed values.
func (e Event) Validate() (Level, time.Time, error) {
	level, err := ParseLevel(e.Level)
	if err != nil {
		return DEBUG, time.Time{}, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if !level.Gateable() || level == SILENT {
		return DEBUG, time.Time{}, fmt.Errorf("%w: level %s cannot be emitted", ErrInvalidEvent, level)
	}

	at, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return DEBUG, time.Time{}, fmt.Errorf("%w: timestamp %q", ErrInvalidEvent, e.Timestamp)
	}

	return level, at, nil
}

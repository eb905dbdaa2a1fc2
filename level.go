// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logkit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownLevel is returned when a level name cannot be parsed.
	ErrUnknownLevel = errors.New("unknown log level")
)

// Level is the severity of a log line. DEBUG through SILENT are ordered and are the
// only values compared against the configured threshold; PERF and MID only select
// the name and color of the auxiliary channels.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	SILENT
	PERF
	MID
)

const (
	colorReset = "\x1b[0m"
)

var levelNames = map[Level]string{
	DEBUG:  "DEBUG",
	INFO:   "INFO",
	WARN:   "WARN",
	ERROR:  "ERROR",
	SILENT: "SILENT",
	PERF:   "PERF",
	MID:    "MID",
}

var levelColors = map[Level]string{
	DEBUG:  "\x1b[36m", // cyan
	INFO:   "\x1b[32m", // green
	WARN:   "\x1b[33m", // yellow
	ERROR:  "\x1b[31m", // red
	SILENT: "",
	PERF:   "\x1b[93m", // bright yellow
	MID:    "\x1b[97m", // bright white
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "Level(" + strconv.Itoa(int(l)) + ")"
}

// Gateable reports whether the level takes part in threshold comparisons.
func (l Level) Gateable() bool {
	return l >= DEBUG && l <= SILENT
}

func (l Level) color() string {
	return levelColors[l]
}

// ParseLevel returns the Level matching name, ignoring case. Numeric values are
// accepted as well.
func ParseLevel(name string) (Level, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(name))
	for level, levelName := range levelNames {
		if levelName == trimmed {
			return level, nil
		}
	}

	if trimmed == "WARNING" {
		return WARN, nil
	}

	if value, err := strconv.Atoi(trimmed); err == nil {
		return Level(value), nil
	}

	return DEBUG, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	level, err := ParseLevel(string(text))
	if err != nil {
		return err
	}

	*l = level
	return nil
}

// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logkit

import (
	"slices"
	"sync"
)

// Config is the complete logging configuration shared by every channel.
type Config struct {
	Level                 Level   `json:"level" yaml:"level"`
	EnableConsoleLogs     bool    `json:"enableConsoleLogs" yaml:"enableConsoleLogs"`
	EnablePerformanceLogs bool    `json:"enablePerformanceLogs" yaml:"enablePerformanceLogs"`
	EnableMiddlewareLogs  bool    `json:"enableMiddlewareLogs" yaml:"enableMiddlewareLogs"`
	FormatTimestamp       bool    `json:"formatTimestamp" yaml:"formatTimestamp"`
	ErrorsToCapture       []Level `json:"errorsToCapture" yaml:"errorsToCapture"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Level:                 DEBUG,
		EnableConsoleLogs:     true,
		EnablePerformanceLogs: true,
		EnableMiddlewareLogs:  true,
		FormatTimestamp:       true,
		ErrorsToCapture:       []Level{ERROR},
	}
}

// Captures reports whether level is one of the levels adapters must record as
// errors. Membership is exact: it is not a threshold.
func (c Config) Captures(level Level) bool {
	return slices.Contains(c.ErrorsToCapture, level)
}

func (c Config) clone() Config {
	c.ErrorsToCapture = slices.Clone(c.ErrorsToCapture)
	return c
}

// Partial holds a subset of Config fields to merge over the current configuration.
// Nil fields are left untouched; a non nil ErrorsToCapture replaces the current set
// wholesale.
type Partial struct {
	Level                 *Level  `json:"level,omitempty" yaml:"level,omitempty"`
	EnableConsoleLogs     *bool   `json:"enableConsoleLogs,omitempty" yaml:"enableConsoleLogs,omitempty"`
	EnablePerformanceLogs *bool   `json:"enablePerformanceLogs,omitempty" yaml:"enablePerformanceLogs,omitempty"`
	EnableMiddlewareLogs  *bool   `json:"enableMiddlewareLogs,omitempty" yaml:"enableMiddlewareLogs,omitempty"`
	FormatTimestamp       *bool   `json:"formatTimestamp,omitempty" yaml:"formatTimestamp,omitempty"`
	ErrorsToCapture       []Level `json:"errorsToCapture,omitempty" yaml:"errorsToCapture,omitempty"`
}

// Merge returns a Partial where every field set in other overrides the receiver.
func (p Partial) Merge(other Partial) Partial {
	if other.Level != nil {
		p.Level = other.Level
	}
	if other.EnableConsoleLogs != nil {
		p.EnableConsoleLogs = other.EnableConsoleLogs
	}
	if other.EnablePerformanceLogs != nil {
		p.EnablePerformanceLogs = other.EnablePerformanceLogs
	}
	if other.EnableMiddlewareLogs != nil {
		p.EnableMiddlewareLogs = other.EnableMiddlewareLogs
	}
	if other.FormatTimestamp != nil {
		p.FormatTimestamp = other.FormatTimestamp
	}
	if other.ErrorsToCapture != nil {
		p.ErrorsToCapture = slices.Clone(other.ErrorsToCapture)
	}
	return p
}

// apply merges the partial over cfg and returns the result.
func (p Partial) apply(cfg Config) Config {
	if p.Level != nil {
		cfg.Level = *p.Level
	}
	if p.EnableConsoleLogs != nil {
		cfg.EnableConsoleLogs = *p.EnableConsoleLogs
	}
	if p.EnablePerformanceLogs != nil {
		cfg.EnablePerformanceLogs = *p.EnablePerformanceLogs
	}
	if p.EnableMiddlewareLogs != nil {
		cfg.EnableMiddlewareLogs = *p.EnableMiddlewareLogs
	}
	if p.FormatTimestamp != nil {
		cfg.FormatTimestamp = *p.FormatTimestamp
	}
	if p.ErrorsToCapture != nil {
		cfg.ErrorsToCapture = slices.Clone(p.ErrorsToCapture)
	}
	return cfg
}

// Ptr returns a pointer to v, handy for building a Partial inline.
func Ptr[T any](v T) *T {
	return &v
}

// store owns the live configuration. Readers always receive a copy.
type store struct {
	lock sync.RWMutex
	cfg  Config
}

func newStore() *store {
	return &store{cfg: DefaultConfig()}
}

func (s *store) get() Config {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.cfg.clone()
}

func (s *store) set(p Partial) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.cfg = p.apply(s.cfg)
}

func (s *store) reset() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.cfg = DefaultConfig()
}

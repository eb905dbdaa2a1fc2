// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logkit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	defaultPerfTag      = "PERF"
	defaultElapsedLabel = "completed"
)

// Timers keeps named timers and reports them on the performance channel.
type Timers struct {
	logger *Logger

	lock    sync.Mutex
	started map[string]time.Time
}

func newTimers(logger *Logger) *Timers {
	return &Timers{
		logger:  logger,
		started: make(map[string]time.Time),
	}
}

// Start records the start of the timer id, replacing any unfinished timer with the
// same id. Nothing happens while performance logs are disabled.
func (t *Timers) Start(id string) {
	if !t.logger.perf.Enabled() {
		return
	}

	t.logger.perf.Log(defaultPerfTag, "⏱️ Starting timer for "+id)
	t.lock.Lock()
	t.started[id] = t.logger.now()
	t.lock.Unlock()
}

// End stops the timer id and returns its duration. The boolean is false when
// performance logs are disabled or when the timer was never started; the latter is
// reported on the performance channel.
func (t *Timers) End(id string, tag ...string) (time.Duration, bool) {
	if !t.logger.perf.Enabled() {
		return 0, false
	}

	perfTag := defaultPerfTag
	if len(tag) > 0 && tag[0] != "" {
		perfTag = tag[0]
	}

	end := t.logger.now()
	t.lock.Lock()
	start, found := t.started[id]
	delete(t.started, id)
	t.lock.Unlock()

	if !found {
		t.logger.perf.Log(perfTag, fmt.Sprintf("⚠️ Timer '%s' was not started", id))
		return 0, false
	}

	duration := max(end.Sub(start), 0)
	t.logger.perf.Log(perfTag, fmt.Sprintf("✅%s took %.2f ms", id, milliseconds(duration)))
	return duration, true
}

// Running reports whether the timer id has been started and not ended yet.
func (t *Timers) Running(id string) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	_, found := t.started[id]
	return found
}

// Stopwatch is a single unnamed timer bound to a tag.
type Stopwatch struct {
	logger *Logger
	tag    string

	lock    sync.Mutex
	start   time.Time
	running bool
}

// Stopwatch returns a new stopwatch reporting on the performance channel with tag.
func (l *Logger) Stopwatch(tag string) *Stopwatch {
	return &Stopwatch{logger: l, tag: tag}
}

// Start begins tracking.
func (s *Stopwatch) Start() {
	s.lock.Lock()
	s.start = s.logger.now()
	s.running = true
	s.lock.Unlock()

	s.logger.perf.Log(s.tag, "⏱️ Performance tracking started")
}

// End stops tracking and logs the elapsed time with label, "completed" if empty.
func (s *Stopwatch) End(label string) (time.Duration, bool) {
	if label == "" {
		label = defaultElapsedLabel
	}

	s.lock.Lock()
	running := s.running
	start := s.start
	s.running = false
	s.lock.Unlock()

	if !running {
		s.logger.perf.Log(s.tag, "⚠️ Tried to end performance but it was never started")
		return 0, false
	}

	duration := max(s.logger.now().Sub(start), 0)
	s.logger.perf.Log(s.tag, fmt.Sprintf("✅ %s in %.2fms", label, milliseconds(duration)))
	return duration, true
}

// MeasureAsync runs fn and reports how long it took on the performance channel of
// l, or of the default Logger when l is nil. The result and the error of fn are
// returned untouched.
func MeasureAsync[T any](ctx context.Context, l *Logger, tag string, label string, fn func(context.Context) (T, error)) (T, error) {
	if l == nil {
		l = Default()
	}

	start := l.now()
	result, err := fn(ctx)
	elapsed := max(l.now().Sub(start), 0).Milliseconds()

	if err != nil {
		l.perf.Log(tag, fmt.Sprintf("❌ %s failed after %dms", label, elapsed), err)
		return result, err
	}

	l.perf.Log(tag, fmt.Sprintf("✅ %s completed in %dms", label, elapsed))
	return result, nil
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

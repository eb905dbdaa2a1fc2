// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logkit

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/trickstertwo/xclock"
)

const (
	// internalTag is used for the lines the Logger writes about itself.
	internalTag = "Logger"

	levelNameWidth = 5
)

// Logger is the dispatch engine: every leveled call goes through the level gate,
// the formatter, the console and the adapter fanout.
type Logger struct {
	store    *store
	registry *registry
	timers   *Timers

	clock           xclock.Clock
	colors          bool
	deliveryTimeout time.Duration

	outLock sync.Mutex
	out     io.Writer

	perf       *Channel
	middleware *Channel
}

// New creates an isolated Logger with the default configuration.
func New(opts ...Option) *Logger {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	l := &Logger{
		store:           newStore(),
		clock:           o.clock,
		colors:          o.colors,
		deliveryTimeout: o.deliveryTimeout,
		out:             o.output,
	}
	if o.config != nil {
		l.store.set(*o.config)
	}

	l.registry = newRegistry(o.queueSize, l.deliver)
	l.perf = newChannel(l, PERF, func(cfg Config) bool { return cfg.EnablePerformanceLogs })
	l.middleware = newChannel(l, MID, func(cfg Config) bool { return cfg.EnableMiddlewareLogs })
	l.timers = newTimers(l)
	return l
}

// Config returns a snapshot of the current configuration.
func (l *Logger) Config() Config {
	return l.store.get()
}

// Configure merges p over the current configuration.
func (l *Logger) Configure(p Partial) {
	l.store.set(p)
}

// Reset restores the default configuration and removes every adapter.
// Running timers are kept.
func (l *Logger) Reset() {
	l.store.reset()
	l.registry.clear()
}

// Level returns the current threshold.
func (l *Logger) Level() Level {
	return l.store.get().Level
}

// SetLevel changes only the threshold.
func (l *Logger) SetLevel(level Level) {
	l.store.set(Partial{Level: &level})
}

// RegisterAdapter adds adapter to the fanout. It fails with ErrInvalidAdapter when
// the adapter cannot log; an adapter with an already registered id is ignored with
// a warning.
func (l *Logger) RegisterAdapter(adapter Adapter) error {
	inserted, err := l.registry.register(adapter)
	if err != nil {
		return err
	}

	if !inserted {
		l.warn(fmt.Sprintf("[Logger] Adapter %q is already registered.", adapter.ID()))
	}
	return nil
}

// UnregisterAdapter removes the adapter registered with id, if any.
func (l *Logger) UnregisterAdapter(id string) {
	l.registry.unregister(id)
}

// Adapter returns the adapter registered with id.
func (l *Logger) Adapter(id string) (Adapter, bool) {
	return l.registry.get(id)
}

// Adapters returns the sorted ids of the registered adapters.
func (l *Logger) Adapters() []string {
	return l.registry.ids()
}

// Dropped returns how many events were discarded for the adapter because its
// queue was full.
func (l *Logger) Dropped(id string) uint64 {
	return l.registry.dropped(id)
}

// Flush blocks until every event logged before the call, including the reports
// of adapter failures they caused, has been handed to the adapters.
func (l *Logger) Flush(ctx context.Context) error {
	// the second round covers failures reported while the first one drained
	if err := l.registry.flush(ctx); err != nil {
		return err
	}
	return l.registry.flush(ctx)
}

// Close flushes the pending events and stops every adapter lane. The Logger keeps
// working for console output; adapters registered afterwards get a new lane.
func (l *Logger) Close(ctx context.Context) error {
	if err := l.Flush(ctx); err != nil {
		return err
	}
	return l.registry.close(ctx)
}

// Debug logs args at DEBUG level.
func (l *Logger) Debug(tag string, args ...any) {
	l.log(DEBUG, tag, args)
}

// Info logs args at INFO level.
func (l *Logger) Info(tag string, args ...any) {
	l.log(INFO, tag, args)
}

// Warn logs args at WARN level.
func (l *Logger) Warn(tag string, args ...any) {
	l.log(WARN, tag, args)
}

// Error logs args at ERROR level.
func (l *Logger) Error(tag string, args ...any) {
	l.log(ERROR, tag, args)
}

// Log logs args at level. Only DEBUG, INFO, WARN and ERROR are emitted: SILENT is a
// threshold and any other value is ignored.
func (l *Logger) Log(level Level, tag string, args ...any) {
	l.log(level, tag, args)
}

// Perf returns the performance channel.
func (l *Logger) Perf() *Channel {
	return l.perf
}

// Middleware returns the middleware channel.
func (l *Logger) Middleware() *Channel {
	return l.middleware
}

// Timers returns the named timer registry.
func (l *Logger) Timers() *Timers {
	return l.timers
}

func (l *Logger) log(level Level, tag string, args []any) {
	l.dispatch(level, tag, "", args)
}

// dispatch runs the whole pipeline. faulty holds the id of the adapter whose
// failure is being reported, empty for regular calls.
func (l *Logger) dispatch(level Level, tag string, faulty string, args []any) {
	defer func() {
		// logging never fails into the caller
		_ = recover()
	}()

	if !level.Gateable() || level == SILENT {
		return
	}

	cfg := l.store.get()
	if level < cfg.Level {
		return
	}

	message := FormatMessage(args...)
	if cfg.EnableConsoleLogs {
		l.write(l.mainLine(cfg, level, tag, message))
	}

	l.registry.fanout(delivery{
		level:   level,
		tag:     tag,
		message: message,
		fault:   faulty != "",
	}, faulty)
}

// deliver runs on the adapter lane.
func (l *Logger) deliver(adapter Adapter, d delivery) {
	err := l.invoke(adapter, d)
	if err == nil || d.fault {
		return
	}

	l.dispatch(ERROR, internalTag, adapter.ID(), []any{"Adapter error:", &AdapterError{ID: adapter.ID(), Err: err}})
}

func (l *Logger) invoke(adapter Adapter, d delivery) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()

	ctx := context.Background()
	if l.deliveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.deliveryTimeout)
		defer cancel()
	}

	return adapter.Log(ctx, d.level, d.tag, d.message)
}

// warn writes a WARN line on the console only, bypassing gate and fanout.
func (l *Logger) warn(message string) {
	cfg := l.store.get()
	if !cfg.EnableConsoleLogs {
		return
	}
	l.write(l.mainLine(cfg, WARN, internalTag, message))
}

func (l *Logger) mainLine(cfg Config, level Level, tag string, message string) string {
	builder := new(strings.Builder)
	if l.colors {
		builder.WriteString(level.color())
	}
	if cfg.FormatTimestamp {
		builder.WriteString("[" + FormatTimestamp(l.now()) + "] ")
	}
	builder.WriteString("[" + padRight(level.String(), levelNameWidth) + "] ")
	builder.WriteString("[" + tag + "] ")
	builder.WriteString(message)
	if l.colors {
		builder.WriteString(colorReset)
	}
	return builder.String()
}

func (l *Logger) channelLine(cfg Config, level Level, message string) string {
	builder := new(strings.Builder)
	if l.colors {
		builder.WriteString(level.color())
	}
	if cfg.FormatTimestamp {
		builder.WriteString("[" + FormatTimestamp(l.now()) + "] ")
	}
	builder.WriteString("[" + level.String() + "] ")
	builder.WriteString(message)
	if l.colors {
		builder.WriteString(colorReset)
	}
	return builder.String()
}

func (l *Logger) write(line string) {
	l.outLock.Lock()
	defer l.outLock.Unlock()
	_, _ = io.WriteString(l.out, line+"\n")
}

func (l *Logger) now() time.Time {
	if l.clock != nil {
		return l.clock.Now()
	}
	return xclock.Now()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

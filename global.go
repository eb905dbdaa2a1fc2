// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logkit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

var (
	defaultLogger atomic.Pointer[Logger]
	defaultOnce   sync.Once
)

// Default returns the process-wide Logger, creating it on first use.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger.CompareAndSwap(nil, New())
	})
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide Logger. A nil logger is ignored.
func SetDefault(l *Logger) {
	if l == nil {
		return
	}
	defaultOnce.Do(func() {})
	defaultLogger.Store(l)
}

// Configure merges p over the configuration of the default Logger.
func Configure(p Partial) { Default().Configure(p) }

// Reset restores defaults and removes the adapters of the default Logger.
func Reset() { Default().Reset() }

// RegisterAdapter registers adapter on the default Logger.
func RegisterAdapter(adapter Adapter) error { return Default().RegisterAdapter(adapter) }

// UnregisterAdapter removes an adapter from the default Logger.
func UnregisterAdapter(id string) { Default().UnregisterAdapter(id) }

// GetLevel returns the threshold of the default Logger.
func GetLevel() Level { return Default().Level() }

// SetLevel changes the threshold of the default Logger.
func SetLevel(level Level) { Default().SetLevel(level) }

func Debug(tag string, args ...any) { Default().log(DEBUG, tag, args) }
func Info(tag string, args ...any)  { Default().log(INFO, tag, args) }
func Warn(tag string, args ...any)  { Default().log(WARN, tag, args) }
func Error(tag string, args ...any) { Default().log(ERROR, tag, args) }

// Perf returns the performance channel of the default Logger.
func Perf() *Channel { return Default().Perf() }

// Middleware returns the middleware channel of the default Logger.
func Middleware() *Channel { return Default().Middleware() }

// StartTimer starts the named timer id on the default Logger.
func StartTimer(id string) { Default().Timers().Start(id) }

// EndTimer ends the named timer id on the default Logger.
func EndTimer(id string, tag ...string) (time.Duration, bool) { return Default().Timers().End(id, tag...) }

// Flush waits for the adapters of the default Logger to receive pending events.
func Flush(ctx context.Context) error { return Default().Flush(ctx) }

// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logkit

import (
	"io"
	"os"
	"time"

	"github.com/trickstertwo/xclock"
)

type options struct {
	output          io.Writer
	clock           xclock.Clock
	colors          bool
	queueSize       int
	deliveryTimeout time.Duration
	config          *Partial
}

func defaultOptions() options {
	return options{
		output:    os.Stdout,
		colors:    true,
		queueSize: DefaultQueueSize,
	}
}

// Option customizes a Logger built with New.
type Option func(*options)

// WithOutput sets the console writer; nil discards console lines.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w == nil {
			w = io.Discard
		}
		o.output = w
	}
}

// WithClock pins the clock used for timestamps and timers. Without it the Logger
// reads xclock.Now on every call.
func WithClock(clock xclock.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithColors toggles the ANSI color prefix and reset suffix of console lines.
func WithColors(enabled bool) Option {
	return func(o *options) {
		o.colors = enabled
	}
}

// WithQueueSize sets how many events each adapter can have pending before new
// events are dropped for that adapter.
func WithQueueSize(size int) Option {
	return func(o *options) {
		o.queueSize = size
	}
}

// WithDeliveryTimeout bounds every adapter Log call with a context deadline.
// Zero, the default, means no deadline.
func WithDeliveryTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.deliveryTimeout = timeout
	}
}

// WithConfig merges p over the default configuration at construction time.
func WithConfig(p Partial) Option {
	return func(o *options) {
		o.config = &p
	}
}

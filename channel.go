// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logkit

// Channel is an auxiliary console emitter with its own toggle. It ignores the
// level threshold and never reaches the adapters.
type Channel struct {
	logger  *Logger
	level   Level
	enabled func(Config) bool
}

func newChannel(logger *Logger, level Level, enabled func(Config) bool) *Channel {
	return &Channel{
		logger:  logger,
		level:   level,
		enabled: enabled,
	}
}

// Enabled reports whether the channel toggle is currently on.
func (c *Channel) Enabled() bool {
	return c.enabled(c.logger.store.get())
}

// Log writes one console line when the channel is enabled. The tag identifies the
// caller but is not part of the output.
func (c *Channel) Log(_ string, args ...any) {
	defer func() {
		_ = recover()
	}()

	// read on every call so later Configure calls are honored
	cfg := c.logger.store.get()
	if !c.enabled(cfg) {
		return
	}

	c.logger.write(c.logger.channelLine(cfg, c.level, FormatMessage(args...)))
}

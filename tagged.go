// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logkit

// Tagged is a Logger view with a fixed tag.
type Tagged struct {
	logger *Logger
	tag    string
}

// Tagged returns a view of l that logs every line with tag.
func (l *Logger) Tagged(tag string) Tagged {
	return Tagged{logger: l, tag: tag}
}

// Tag returns the bound tag.
func (t Tagged) Tag() string { return t.tag }

func (t Tagged) Debug(args ...any) { t.logger.log(DEBUG, t.tag, args) }
func (t Tagged) Info(args ...any)  { t.logger.log(INFO, t.tag, args) }
func (t Tagged) Warn(args ...any)  { t.logger.log(WARN, t.tag, args) }
func (t Tagged) Error(args ...any) { t.logger.log(ERROR, t.tag, args) }

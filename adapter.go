// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logkit

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidAdapter is returned by RegisterAdapter when the adapter cannot log.
	ErrInvalidAdapter = errors.New("invalid adapter: must implement log method")
)

// Adapter is a sink that receives every log event passing the level gate.
// Log is called from a goroutine owned by the Logger, one at a time per adapter;
// it may block without affecting callers or other adapters.
type Adapter interface {
	// ID returns the unique identifier of the adapter.
	ID() string

	// Log delivers a formatted log event.
	Log(ctx context.Context, level Level, tag string, message string) error
}

// ConfigSource exposes the live configuration to adapters that depend on it.
// *Logger implements it.
type ConfigSource interface {
	Config() Config
}

// LogFunc is the signature of the function wrapped by AdapterFunc.
type LogFunc func(ctx context.Context, level Level, tag string, message string) error

// AdapterFunc builds an Adapter from an id and a function.
func AdapterFunc(id string, fn LogFunc) Adapter {
	return &funcAdapter{id: id, fn: fn}
}

type funcAdapter struct {
	id string
	fn LogFunc
}

func (a *funcAdapter) ID() string {
	return a.id
}

func (a *funcAdapter) Log(ctx context.Context, level Level, tag string, message string) error {
	return a.fn(ctx, level, tag, message)
}

func validAdapter(adapter Adapter) bool {
	if adapter == nil {
		return false
	}

	// a nil pointer behind the interface cannot answer ID
	if value := reflect.ValueOf(adapter); value.Kind() == reflect.Pointer && value.IsNil() {
		return false
	}

	if fa, ok := adapter.(*funcAdapter); ok {
		return fa != nil && fa.fn != nil
	}

	return true
}

// AdapterError wraps a failure raised by an adapter while delivering an event.
type AdapterError struct {
	ID  string
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("adapter %q: %s", e.ID, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

func (e *AdapterError) Is(target error) bool {
	ae, ok := target.(*AdapterError)
	if !ok {
		return false
	}

	return e.ID == ae.ID
}

// panicError converts a recovered panic value into an error.
func panicError(value any) error {
	switch v := value.(type) {
	case error:
		return fmt.Errorf("panic: %w", v)
	default:
		return fmt.Errorf("panic: %v", v)
	}
}

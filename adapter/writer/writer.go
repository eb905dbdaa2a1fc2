// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/trickstertwo/xclock"

	"github.com/mia-platform/logkit"
)

var _ logkit.Adapter = &Adapter{}

// Adapter writes the wire event of every log event on w.
type Adapter struct {
	id     string
	writer io.Writer

	lock sync.Mutex
}

// New returns an adapter writing on w.
func New(id string, w io.Writer) *Adapter {
	return &Adapter{
		id:     id,
		writer: w,
	}
}

// ID implements logkit.Adapter.
func (a *Adapter) ID() string {
	return a.id
}

// Log implements logkit.Adapter.
func (a *Adapter) Log(_ context.Context, level logkit.Level, tag string, message string) error {
	builder := new(strings.Builder)
	builder.WriteString("Log event:\n\t")

	encoder := json.NewEncoder(builder)
	encoder.SetIndent("\t", "\t")
	if err := encoder.Encode(logkit.NewEvent(level, tag, message, xclock.Now())); err != nil {
		return err
	}
	builder.WriteString("\n")

	a.lock.Lock()
	defer a.lock.Unlock()
	_, err := fmt.Fprint(a.writer, builder.String())
	return err
}

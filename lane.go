// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logkit

import (
	"context"
	"sync"
	"sync/atomic"
)

const (
	// DefaultQueueSize is the number of events buffered for each adapter.
	DefaultQueueSize = 256
)

// delivery is the unit queued on a lane. A non nil barrier marks a flush request.
type delivery struct {
	level   Level
	tag     string
	message string

	// fault is set on the re-report of an adapter failure.
	fault bool

	barrier chan struct{}
}

// lane feeds a single adapter from a bounded queue drained by its own goroutine,
// so a slow or hung adapter never blocks the caller or the other adapters.
type lane struct {
	adapter Adapter
	deliver func(Adapter, delivery)

	queue   chan delivery
	quit    chan struct{}
	done    chan struct{}
	stopped sync.Once
	dropped atomic.Uint64
}

func newLane(adapter Adapter, size int, deliver func(Adapter, delivery)) *lane {
	if size <= 0 {
		size = DefaultQueueSize
	}

	l := &lane{
		adapter: adapter,
		deliver: deliver,
		queue:   make(chan delivery, size),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go l.run()
	return l
}

// offer enqueues d without blocking; a full or stopped lane drops the event.
func (l *lane) offer(d delivery) bool {
	select {
	case <-l.quit:
		return false
	default:
	}

	select {
	case l.queue <- d:
		return true
	default:
		l.dropped.Add(1)
		return false
	}
}

// flush waits for every event queued before the call to be delivered.
func (l *lane) flush(ctx context.Context) error {
	barrier := make(chan struct{})
	select {
	case l.queue <- delivery{barrier: barrier}:
	case <-l.quit:
		return l.wait(ctx)
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-barrier:
		return nil
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stop asks the lane to deliver what is already queued and exit.
func (l *lane) stop() {
	l.stopped.Do(func() { close(l.quit) })
}

func (l *lane) wait(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lane) run() {
	defer close(l.done)
	for {
		select {
		case d := <-l.queue:
			l.handle(d)
		case <-l.quit:
			for {
				select {
				case d := <-l.queue:
					l.handle(d)
				default:
					return
				}
			}
		}
	}
}

func (l *lane) handle(d delivery) {
	if d.barrier != nil {
		close(d.barrier)
		return
	}
	l.deliver(l.adapter, d)
}

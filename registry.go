// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logkit

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
)

// registry holds the registered adapters keyed by id, each one behind its lane.
type registry struct {
	lock  sync.RWMutex
	lanes map[string]*lane

	queueSize int
	deliver   func(Adapter, delivery)
}

func newRegistry(queueSize int, deliver func(Adapter, delivery)) *registry {
	return &registry{
		lanes:     make(map[string]*lane),
		queueSize: queueSize,
		deliver:   deliver,
	}
}

// register adds adapter and reports whether it was inserted. A duplicate id is
// not an error: the registry is left unchanged and false is returned.
func (r *registry) register(adapter Adapter) (bool, error) {
	if !validAdapter(adapter) {
		return false, ErrInvalidAdapter
	}

	id := adapter.ID()
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, found := r.lanes[id]; found {
		return false, nil
	}

	r.lanes[id] = newLane(adapter, r.queueSize, r.deliver)
	return true, nil
}

func (r *registry) unregister(id string) {
	r.lock.Lock()
	l, found := r.lanes[id]
	delete(r.lanes, id)
	r.lock.Unlock()

	if found {
		l.stop()
	}
}

// fanout offers d to every lane except the one registered as skip.
func (r *registry) fanout(d delivery, skip string) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for id, l := range r.lanes {
		if skip != "" && id == skip {
			continue
		}
		l.offer(d)
	}
}

func (r *registry) clear() {
	r.lock.Lock()
	lanes := r.lanes
	r.lanes = make(map[string]*lane)
	r.lock.Unlock()

	for _, l := range lanes {
		l.stop()
	}
}

func (r *registry) get(id string) (Adapter, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	l, found := r.lanes[id]
	if !found {
		return nil, false
	}
	return l.adapter, true
}

func (r *registry) ids() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return slices.Sorted(maps.Keys(r.lanes))
}

func (r *registry) dropped(id string) uint64 {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if l, found := r.lanes[id]; found {
		return l.dropped.Load()
	}
	return 0
}

func (r *registry) snapshot() []*lane {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return slices.Collect(maps.Values(r.lanes))
}

// flush waits for every lane to deliver the events queued before the call.
func (r *registry) flush(ctx context.Context) error {
	var errs []error
	for _, l := range r.snapshot() {
		if err := l.flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// close flushes and stops every lane, then empties the registry.
func (r *registry) close(ctx context.Context) error {
	r.lock.Lock()
	lanes := r.lanes
	r.lanes = make(map[string]*lane)
	r.lock.Unlock()

	var errs []error
	for _, l := range lanes {
		l.stop()
	}
	for _, l := range lanes {
		if err := l.wait(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

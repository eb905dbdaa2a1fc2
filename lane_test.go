// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logkit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLane(t *testing.T) {
	t.Parallel()

	t.Run("delivers in order and flushes", func(t *testing.T) {
		t.Parallel()

		var lock sync.Mutex
		var messages []string
		l := newLane(&recordingAdapter{id: "ordered"}, 8, func(_ Adapter, d delivery) {
			lock.Lock()
			defer lock.Unlock()
			messages = append(messages, d.message)
		})
		defer l.stop()

		for _, message := range []string{"one", "two", "three"} {
			require.True(t, l.offer(delivery{message: message}))
		}
		require.NoError(t, l.flush(t.Context()))

		lock.Lock()
		defer lock.Unlock()
		assert.Equal(t, []string{"one", "two", "three"}, messages)
	})

	t.Run("stop drains the queue and rejects new events", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		var lock sync.Mutex
		delivered := 0
		l := newLane(&recordingAdapter{id: "draining"}, 8, func(Adapter, delivery) {
			<-release
			lock.Lock()
			delivered++
			lock.Unlock()
		})

		require.True(t, l.offer(delivery{message: "first"}))
		require.True(t, l.offer(delivery{message: "second"}))
		l.stop()
		l.stop()
		assert.False(t, l.offer(delivery{message: "late"}))

		close(release)
		ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
		defer cancel()
		require.NoError(t, l.wait(ctx))
		require.NoError(t, l.flush(ctx))

		lock.Lock()
		defer lock.Unlock()
		assert.Equal(t, 2, delivered)
	})

	t.Run("flush honors the context", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		l := newLane(&recordingAdapter{id: "stuck"}, 1, func(Adapter, delivery) {
			<-release
		})
		defer func() {
			close(release)
			l.stop()
		}()

		require.True(t, l.offer(delivery{message: "blocking"}))
		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()
		require.ErrorIs(t, l.flush(ctx), context.DeadlineExceeded)
	})
}

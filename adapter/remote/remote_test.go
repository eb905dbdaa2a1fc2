// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package remote

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logkit"
)

type receivedRequest struct {
	method  string
	headers http.Header
	event   logkit.Event
}

func newTestServer(t *testing.T, status int) (*httptest.Server, func() []receivedRequest) {
	t.Helper()

	var lock sync.Mutex
	var requests []receivedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var event logkit.Event
		assert.NoError(t, json.Unmarshal(body, &event))

		lock.Lock()
		requests = append(requests, receivedRequest{method: r.Method, headers: r.Header.Clone(), event: event})
		lock.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	return server, func() []receivedRequest {
		lock.Lock()
		defer lock.Unlock()
		return append([]receivedRequest(nil), requests...)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(Options{ID: "remote"})
	require.ErrorIs(t, err, ErrMissingEndpoint)
}

func TestAdapterLog(t *testing.T) {
	t.Parallel()

	t.Run("posts the wire event with merged headers", func(t *testing.T) {
		t.Parallel()

		server, requests := newTestServer(t, http.StatusAccepted)
		adapter, err := New(Options{
			ID:       "remote",
			Endpoint: server.URL,
			Headers:  map[string]string{"Authorization": "Bearer token", "Content-Type": "application/vnd.logs+json"},
		})
		require.NoError(t, err)

		require.NoError(t, adapter.Log(t.Context(), logkit.WARN, "Api", "slow response"))

		received := requests()
		require.Len(t, received, 1)
		assert.Equal(t, http.MethodPost, received[0].method)
		assert.Equal(t, "Bearer token", received[0].headers.Get("Authorization"))
		assert.Equal(t, "application/vnd.logs+json", received[0].headers.Get("Content-Type"))
		assert.Equal(t, "logkit/DEV", received[0].headers.Get("User-Agent"))
		assert.Equal(t, "WARN", received[0].event.Level)
		assert.Equal(t, "Api", received[0].event.Tag)
		assert.Equal(t, "slow response", received[0].event.Message)

		_, err = time.Parse(time.RFC3339Nano, received[0].event.Timestamp)
		assert.NoError(t, err)
	})

	t.Run("default content type", func(t *testing.T) {
		t.Parallel()

		server, requests := newTestServer(t, http.StatusOK)
		adapter, err := New(Options{ID: "remote", Endpoint: server.URL})
		require.NoError(t, err)

		require.NoError(t, adapter.Log(t.Context(), logkit.INFO, "Api", "ok"))
		received := requests()
		require.Len(t, received, 1)
		assert.Equal(t, "application/json", received[0].headers.Get("Content-Type"))
	})

	t.Run("events below the minimum level are dropped", func(t *testing.T) {
		t.Parallel()

		server, requests := newTestServer(t, http.StatusOK)
		adapter, err := New(Options{ID: "remote", Endpoint: server.URL, MinLevel: logkit.Ptr(logkit.WARN)})
		require.NoError(t, err)

		require.NoError(t, adapter.Log(t.Context(), logkit.INFO, "Api", "dropped"))
		require.NoError(t, adapter.Log(t.Context(), logkit.ERROR, "Api", "kept"))

		received := requests()
		require.Len(t, received, 1)
		assert.Equal(t, "kept", received[0].event.Message)
	})

	t.Run("failures are warned and swallowed", func(t *testing.T) {
		t.Parallel()

		buffer := new(bytes.Buffer)
		log := hclog.New(&hclog.LoggerOptions{Output: buffer, Level: hclog.Warn, JSONFormat: true})

		server, _ := newTestServer(t, http.StatusInternalServerError)
		adapter, err := New(Options{ID: "remote", Endpoint: server.URL, Logger: log})
		require.NoError(t, err)
		require.NoError(t, adapter.Log(t.Context(), logkit.ERROR, "Api", "boom"))

		unreachable, err := New(Options{ID: "remote", Endpoint: "http://127.0.0.1:0", Logger: log})
		require.NoError(t, err)
		require.NoError(t, unreachable.Log(t.Context(), logkit.ERROR, "Api", "boom"))

		decoder := json.NewDecoder(buffer)
		var lines []map[string]any
		for decoder.More() {
			var line map[string]any
			require.NoError(t, decoder.Decode(&line))
			lines = append(lines, line)
		}
		require.Len(t, lines, 2)
		assert.Equal(t, "Failed to send log", lines[0]["@message"])
		assert.Equal(t, loggerName, lines[0]["@module"])
		assert.Contains(t, lines[0]["error"], "unexpected status code 500")
	})
}

func TestNewFromEnv(t *testing.T) {
	t.Run("missing endpoint", func(t *testing.T) {
		t.Setenv("LOGKIT_REMOTE_ENDPOINT", "")
		_, err := NewFromEnv("remote", nil)
		require.ErrorIs(t, err, ErrMissingEndpoint)
	})

	t.Run("invalid min level", func(t *testing.T) {
		t.Setenv("LOGKIT_REMOTE_ENDPOINT", "http://localhost")
		t.Setenv("LOGKIT_REMOTE_MIN_LEVEL", "loud")
		_, err := NewFromEnv("remote", nil)
		require.ErrorIs(t, err, ErrInvalidEnvVariable)
	})

	t.Run("invalid timeout", func(t *testing.T) {
		t.Setenv("LOGKIT_REMOTE_ENDPOINT", "http://localhost")
		t.Setenv("LOGKIT_REMOTE_TIMEOUT", "soon")
		_, err := NewFromEnv("remote", nil)
		require.ErrorIs(t, err, ErrInvalidEnvVariable)
	})

	t.Run("full configuration", func(t *testing.T) {
		t.Setenv("LOGKIT_REMOTE_ENDPOINT", "http://localhost/logs")
		t.Setenv("LOGKIT_REMOTE_HEADERS", "Authorization:Bearer abc,X-App:shop")
		t.Setenv("LOGKIT_REMOTE_MIN_LEVEL", "warn")
		t.Setenv("LOGKIT_REMOTE_TIMEOUT", "2s")

		adapter, err := NewFromEnv("remote", nil)
		require.NoError(t, err)
		assert.Equal(t, "remote", adapter.ID())
		assert.Equal(t, "http://localhost/logs", adapter.endpoint)
		assert.Equal(t, map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer abc",
			"X-App":         "shop",
		}, adapter.headers)
		require.NotNil(t, adapter.minLevel)
		assert.Equal(t, logkit.WARN, *adapter.minLevel)
		assert.Equal(t, 2*time.Second, adapter.client.Timeout)
	})
}

// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package hclog

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logkit"
)

func TestAdapterLog(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		level         logkit.Level
		expectedLevel string
	}{
		"debug": {level: logkit.DEBUG, expectedLevel: "debug"},
		"info":  {level: logkit.INFO, expectedLevel: "info"},
		"warn":  {level: logkit.WARN, expectedLevel: "warn"},
		"error": {level: logkit.ERROR, expectedLevel: "error"},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			buffer := new(bytes.Buffer)
			logger := hclog.New(&hclog.LoggerOptions{
				Output:     buffer,
				Level:      hclog.Trace,
				JSONFormat: true,
			})

			adapter := New("hclog", logger)
			require.NoError(t, adapter.Log(t.Context(), test.level, "Cart", "item added"))

			var line map[string]any
			require.NoError(t, json.Unmarshal(buffer.Bytes(), &line))
			assert.Equal(t, test.expectedLevel, line["@level"])
			assert.Equal(t, "item added", line["@message"])
			assert.Equal(t, "Cart", line["tag"])
		})
	}
}

func TestAdapterRespectsLoggerLevel(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	logger := hclog.New(&hclog.LoggerOptions{Output: buffer, Level: hclog.Warn})

	l := logkit.New(logkit.WithOutput(nil))
	require.NoError(t, l.RegisterAdapter(New("hclog", logger)))
	t.Cleanup(func() { _ = l.Close(context.Background()) })

	l.Info("Cart", "hidden")
	l.Error("Cart", "visible")
	require.NoError(t, l.Flush(t.Context()))

	assert.NotContains(t, buffer.String(), "hidden")
	assert.Contains(t, buffer.String(), "[ERROR] visible: tag=Cart")
}

func TestNilLogger(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		_ = New("hclog", nil).Log(t.Context(), logkit.INFO, "Cart", "discarded")
	})
}

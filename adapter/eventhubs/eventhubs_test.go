// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package eventhubs

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azeventhubs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/logkit"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		cfg         Config
		expectedErr error
	}{
		"missing connection string and namespace": {
			cfg:         Config{},
			expectedErr: ErrInvalidEnvVariable,
		},
		"namespace without event hub name": {
			cfg:         Config{Namespace: "ns"},
			expectedErr: ErrMissingEnvVariable,
		},
		"namespace and name": {
			cfg: Config{Namespace: "ns", EventHubName: "logs"},
		},
		"connection string": {
			cfg: Config{ConnectionString: "Endpoint=sb://ns.servicebus.windows.net/;EntityPath=logs"},
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			err := test.cfg.validate()
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestFullyQualifiedNamespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ns.servicebus.windows.net", Config{Namespace: "ns"}.fullyQualifiedNamespace())
	assert.Equal(t, "ns.servicebus.windows.net", Config{Namespace: "ns.servicebus.windows.net"}.fullyQualifiedNamespace())
}

func TestNewFromEnvValidation(t *testing.T) {
	t.Setenv("LOGKIT_EVENT_HUB_CONNECTION_STRING", "")
	t.Setenv("LOGKIT_EVENT_HUB_NAMESPACE", "ns")
	t.Setenv("LOGKIT_EVENT_HUB_NAME", "")

	_, err := NewFromEnv("eventhubs")
	require.ErrorIs(t, err, ErrMissingEnvVariable)
}

func TestAdapterLog(t *testing.T) {
	t.Parallel()

	var lock sync.Mutex
	var sent []*azeventhubs.EventData
	adapter := &Adapter{
		id: "eventhubs",
		send: func(_ context.Context, data *azeventhubs.EventData) error {
			lock.Lock()
			defer lock.Unlock()
			sent = append(sent, data)
			return nil
		},
		close: func(context.Context) error { return nil },
	}

	l := logkit.New(logkit.WithOutput(nil))
	require.NoError(t, l.RegisterAdapter(adapter))
	t.Cleanup(func() { _ = l.Close(context.Background()) })

	l.Info("Cart", "item added")
	l.Debug("Cart", map[string]int{"items": 3})
	require.NoError(t, l.Flush(t.Context()))

	lock.Lock()
	defer lock.Unlock()
	require.Len(t, sent, 2)

	assert.Equal(t, contentType, *sent[0].ContentType)
	assert.Equal(t, map[string]any{"level": "INFO", "tag": "Cart"}, sent[0].Properties)

	var event logkit.Event
	require.NoError(t, json.Unmarshal(sent[1].Body, &event))
	assert.Equal(t, "DEBUG", event.Level)
	assert.Equal(t, "{\n  \"items\": 3\n}", event.Message)
}

func TestAdapterLogReturnsSendErrors(t *testing.T) {
	t.Parallel()

	failure := errors.New("hub unavailable")
	adapter := &Adapter{
		id:    "eventhubs",
		send:  func(context.Context, *azeventhubs.EventData) error { return failure },
		close: func(context.Context) error { return nil },
	}

	require.ErrorIs(t, adapter.Log(t.Context(), logkit.ERROR, "Cart", "boom"), failure)
	require.NoError(t, adapter.Close(t.Context()))
}

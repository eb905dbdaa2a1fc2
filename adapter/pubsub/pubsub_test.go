// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package pubsub

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"cloud.google.com/go/pubsub/v2/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mia-platform/logkit"
)

func newFakePubSubClient(t *testing.T, cfg Config) (*pstest.Server, *pubsub.Client) {
	t.Helper()
	ctx := t.Context()
	srv := pstest.NewServer()

	client, err := pubsub.NewClient(ctx, cfg.ProjectID,
		option.WithEndpoint(srv.Addr),
		option.WithoutAuthentication(),
		option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		option.WithTelemetryDisabled(),
	)
	require.NoError(t, err)

	_, err = client.TopicAdminClient.CreateTopic(ctx, &pubsubpb.Topic{Name: cfg.topicName()})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		srv.Close()
	})
	return srv, client
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		cfg           Config
		expectedErr   error
		expectedTopic string
	}{
		"missing everything": {
			cfg:         Config{},
			expectedErr: ErrMissingEnvVariable,
		},
		"missing topic": {
			cfg:         Config{ProjectID: "project"},
			expectedErr: ErrMissingEnvVariable,
		},
		"topic id": {
			cfg:           Config{ProjectID: "project", TopicID: "logs"},
			expectedTopic: "projects/project/topics/logs",
		},
		"fully qualified topic": {
			cfg:           Config{ProjectID: "project", TopicID: "projects/other/topics/logs"},
			expectedTopic: "projects/other/topics/logs",
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := test.cfg.validate()
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expectedTopic, test.cfg.topicName())
		})
	}
}

func TestNewFromEnvMissingVariables(t *testing.T) {
	t.Setenv("LOGKIT_PUBSUB_PROJECT", "project")
	t.Setenv("LOGKIT_PUBSUB_TOPIC", "")

	_, err := NewFromEnv(t.Context(), "pubsub")
	require.ErrorIs(t, err, ErrMissingEnvVariable)
	assert.ErrorContains(t, err, "LOGKIT_PUBSUB_TOPIC")
}

func TestAdapterPublishes(t *testing.T) {
	t.Parallel()

	cfg := Config{ProjectID: "test-project", TopicID: "logkit-events"}
	srv, client := newFakePubSubClient(t, cfg)

	adapter, err := New("pubsub", client, cfg)
	require.NoError(t, err)
	defer adapter.Close()

	l := logkit.New(logkit.WithOutput(nil))
	require.NoError(t, l.RegisterAdapter(adapter))
	t.Cleanup(func() { _ = l.Close(context.Background()) })

	l.Error("Checkout", "payment declined")
	require.NoError(t, l.Flush(t.Context()))

	messages := srv.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, map[string]string{"level": "ERROR", "tag": "Checkout"}, messages[0].Attributes)

	var event logkit.Event
	require.NoError(t, json.Unmarshal(messages[0].Data, &event))
	assert.Equal(t, "ERROR", event.Level)
	assert.Equal(t, "Checkout", event.Tag)
	assert.Equal(t, "payment declined", event.Message)
	_, _, err = event.Validate()
	require.NoError(t, err)
}

func TestAdapterReportsMissingTopic(t *testing.T) {
	t.Parallel()

	cfg := Config{ProjectID: "test-project", TopicID: "existing"}
	_, client := newFakePubSubClient(t, cfg)

	adapter, err := New("pubsub", client, Config{ProjectID: "test-project", TopicID: "missing"})
	require.NoError(t, err)
	defer adapter.Close()

	require.Error(t, adapter.Log(t.Context(), logkit.INFO, "Api", "lost"))
}

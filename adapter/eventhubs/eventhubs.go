// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package eventhubs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azeventhubs/v2"
	"github.com/caarlos0/env/v11"
	"github.com/trickstertwo/xclock"

	"github.com/mia-platform/logkit"
)

const (
	contentType = "application/json"
)

var (
	// ErrMissingEnvVariable reports missing mandatory environment variables.
	ErrMissingEnvVariable = errors.New("missing environment variable")
	// ErrInvalidEnvVariable reports malformed environment variable values.
	ErrInvalidEnvVariable = errors.New("invalid environment value")
)

var _ logkit.Adapter = &Adapter{}

// Config holds what is needed to reach the Event Hub.
type Config struct {
	ConnectionString string `env:"LOGKIT_EVENT_HUB_CONNECTION_STRING"`
	Namespace        string `env:"LOGKIT_EVENT_HUB_NAMESPACE"`
	EventHubName     string `env:"LOGKIT_EVENT_HUB_NAME"`
}

func (c Config) validate() error {
	switch {
	case len(c.ConnectionString) == 0 && len(c.Namespace) == 0:
		return fmt.Errorf("%w: %s", ErrInvalidEnvVariable, "one of LOGKIT_EVENT_HUB_CONNECTION_STRING or LOGKIT_EVENT_HUB_NAMESPACE must be present")
	case len(c.Namespace) > 0 && len(c.EventHubName) == 0:
		return fmt.Errorf("%w: %s", ErrMissingEnvVariable, "LOGKIT_EVENT_HUB_NAME")
	}

	return nil
}

func (c Config) fullyQualifiedNamespace() string {
	if strings.Contains(c.Namespace, ".servicebus.windows.net") {
		return c.Namespace
	}

	return c.Namespace + ".servicebus.windows.net"
}

func (c Config) newProducerClient(credentials azcore.TokenCredential) (*azeventhubs.ProducerClient, error) {
	if c.ConnectionString != "" {
		return azeventhubs.NewProducerClientFromConnectionString(c.ConnectionString, c.EventHubName, nil)
	}

	return azeventhubs.NewProducerClient(c.fullyQualifiedNamespace(), c.EventHubName, credentials, nil)
}

// sendFunc delivers a single event to the hub.
type sendFunc func(ctx context.Context, data *azeventhubs.EventData) error

// Adapter sends one Event Hub event per log event, partitioned by tag.
type Adapter struct {
	id    string
	send  sendFunc
	close func(ctx context.Context) error
}

// New returns an adapter sending through producer. The caller keeps the
// ownership of producer.
func New(id string, producer *azeventhubs.ProducerClient) *Adapter {
	return &Adapter{
		id:    id,
		send:  producerSend(producer),
		close: func(context.Context) error { return nil },
	}
}

// NewFromEnv builds its own producer from the LOGKIT_EVENT_HUB_* variables. The
// namespace form authenticates with the default Azure credential chain.
func NewFromEnv(id string) (*Adapter, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}
	return NewFromConfig(id, cfg)
}

// NewFromConfig is NewFromEnv with an explicit configuration.
func NewFromConfig(id string, cfg Config) (*Adapter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var credentials azcore.TokenCredential
	if cfg.ConnectionString == "" {
		var err error
		credentials, err = azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, err
		}
	}

	producer, err := cfg.newProducerClient(credentials)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		id:    id,
		send:  producerSend(producer),
		close: producer.Close,
	}, nil
}

// ID implements logkit.Adapter.
func (a *Adapter) ID() string {
	return a.id
}

// Log implements logkit.Adapter.
func (a *Adapter) Log(ctx context.Context, level logkit.Level, tag string, message string) error {
	data, err := eventData(logkit.NewEvent(level, tag, message, xclock.Now()))
	if err != nil {
		return err
	}

	return a.send(ctx, data)
}

// Close releases the producer when the adapter created it.
func (a *Adapter) Close(ctx context.Context) error {
	return a.close(ctx)
}

func eventData(event logkit.Event) (*azeventhubs.EventData, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &azeventhubs.EventData{
		Body:        body,
		ContentType: to(contentType),
		Properties: map[string]any{
			"level": event.Level,
			"tag":   event.Tag,
		},
	}, nil
}

// producerSend sends every event on its own single-event batch, so the partition
// key can follow the tag of each event.
func producerSend(producer *azeventhubs.ProducerClient) sendFunc {
	return func(ctx context.Context, data *azeventhubs.EventData) error {
		partitionKey := data.Properties["tag"].(string)
		batch, err := producer.NewEventDataBatch(ctx, &azeventhubs.EventDataBatchOptions{
			PartitionKey: &partitionKey,
		})
		if err != nil {
			return err
		}

		if err := batch.AddEventData(data, nil); err != nil {
			return err
		}

		return producer.SendEventDataBatch(ctx, batch, nil)
	}
}

func to[T any](v T) *T {
	return &v
}

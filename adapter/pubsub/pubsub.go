// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub/v2"
	"github.com/caarlos0/env/v11"
	"github.com/trickstertwo/xclock"
	"google.golang.org/api/option"

	"github.com/mia-platform/logkit"
)

const (
	levelAttribute = "level"
	tagAttribute   = "tag"
)

var (
	// ErrMissingEnvVariable reports missing mandatory environment variables.
	ErrMissingEnvVariable = errors.New("missing environment variable")
)

var _ logkit.Adapter = &Adapter{}

// Config identifies the destination topic.
type Config struct {
	ProjectID string `env:"LOGKIT_PUBSUB_PROJECT"`
	TopicID   string `env:"LOGKIT_PUBSUB_TOPIC"`
}

func (c Config) validate() error {
	missingEnvs := make([]string, 0)
	if c.ProjectID == "" {
		missingEnvs = append(missingEnvs, "LOGKIT_PUBSUB_PROJECT")
	}
	if c.TopicID == "" {
		missingEnvs = append(missingEnvs, "LOGKIT_PUBSUB_TOPIC")
	}

	if len(missingEnvs) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingEnvVariable, strings.Join(missingEnvs, ", "))
	}
	return nil
}

func (c Config) topicName() string {
	if strings.HasPrefix(c.TopicID, "projects/") {
		return c.TopicID
	}
	return "projects/" + c.ProjectID + "/topics/" + c.TopicID
}

// Adapter publishes one message per event, carrying the wire event as payload and
// the level and tag as attributes.
type Adapter struct {
	id        string
	publisher *pubsub.Publisher

	// client is closed by Close only when the adapter created it.
	client *pubsub.Client
}

// New returns an adapter publishing on the topic of cfg through client.
// The caller keeps the ownership of client.
func New(id string, client *pubsub.Client, cfg Config) (*Adapter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Adapter{
		id:        id,
		publisher: client.Publisher(cfg.topicName()),
	}, nil
}

// NewFromEnv creates its own client from the LOGKIT_PUBSUB_* variables and the
// default Google credentials.
func NewFromEnv(ctx context.Context, id string, opts ...option.ClientOption) (*Adapter, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}
	return NewFromConfig(ctx, id, cfg, opts...)
}

// NewFromConfig is NewFromEnv with an explicit configuration.
func NewFromConfig(ctx context.Context, id string, cfg Config, opts ...option.ClientOption) (*Adapter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, err
	}

	adapter, err := New(id, client, cfg)
	if err != nil {
		client.Close()
		return nil, err
	}

	adapter.client = client
	return adapter, nil
}

// ID implements logkit.Adapter.
func (a *Adapter) ID() string {
	return a.id
}

// Log implements logkit.Adapter. It waits for the server acknowledgment, bounded
// by ctx.
func (a *Adapter) Log(ctx context.Context, level logkit.Level, tag string, message string) error {
	data, err := json.Marshal(logkit.NewEvent(level, tag, message, xclock.Now()))
	if err != nil {
		return err
	}

	result := a.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			levelAttribute: level.String(),
			tagAttribute:   tag,
		},
	})

	_, err = result.Get(ctx)
	return err
}

// Close flushes the pending messages and releases the client if owned.
func (a *Adapter) Close() error {
	a.publisher.Stop()
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

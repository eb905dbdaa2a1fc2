// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-hclog"
	"github.com/trickstertwo/xclock"

	"github.com/mia-platform/logkit"
	"github.com/mia-platform/logkit/internal/info"
)

const (
	loggerName = "RemoteLogger"
)

var (
	// ErrMissingEndpoint is returned when no endpoint is configured.
	ErrMissingEndpoint = errors.New("missing remote endpoint")
	// ErrInvalidEnvVariable reports malformed environment variable values.
	ErrInvalidEnvVariable = errors.New("invalid environment value")
)

var _ logkit.Adapter = &Adapter{}

// Options configures a remote Adapter.
type Options struct {
	// ID of the adapter in the registry.
	ID string
	// Endpoint receiving the POST requests.
	Endpoint string
	// Headers are merged over the default Content-Type header.
	Headers map[string]string
	// MinLevel drops events below it when set.
	MinLevel *logkit.Level
	// Client defaults to a client with a ten seconds timeout.
	Client *http.Client
	// Logger receives the delivery failures, defaults to a null logger.
	Logger hclog.Logger
	// Credentials, when set, authenticate every request with a bearer token.
	Credentials *ClientCredentials
}

// envConfig is the environment counterpart of Options.
type envConfig struct {
	Endpoint string            `env:"LOGKIT_REMOTE_ENDPOINT"`
	Headers  map[string]string `env:"LOGKIT_REMOTE_HEADERS"`
	MinLevel string            `env:"LOGKIT_REMOTE_MIN_LEVEL"`
	Timeout  time.Duration     `env:"LOGKIT_REMOTE_TIMEOUT" envDefault:"10s"`

	TokenURL     string `env:"LOGKIT_REMOTE_TOKEN_URL"`
	ClientID     string `env:"LOGKIT_REMOTE_CLIENT_ID"`
	ClientSecret string `env:"LOGKIT_REMOTE_CLIENT_SECRET"`
}

// Adapter posts every event it receives to a remote endpoint.
type Adapter struct {
	id       string
	endpoint string
	headers  map[string]string
	minLevel *logkit.Level
	client   *http.Client
	log      hclog.Logger
}

// New validates options and returns a remote Adapter.
func New(options Options) (*Adapter, error) {
	if options.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	if err := options.Credentials.validate(); err != nil {
		return nil, err
	}

	client := options.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	client = authenticatedClient(client, options.Credentials)

	log := options.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}

	headers := make(map[string]string, len(options.Headers)+1)
	headers["Content-Type"] = "application/json"
	for key, value := range options.Headers {
		headers[key] = value
	}

	return &Adapter{
		id:       options.ID,
		endpoint: options.Endpoint,
		headers:  headers,
		minLevel: options.MinLevel,
		client:   client,
		log:      log.Named(loggerName),
	}, nil
}

// NewFromEnv builds a remote Adapter with id from the LOGKIT_REMOTE_* variables.
func NewFromEnv(id string, log hclog.Logger) (*Adapter, error) {
	cfg, err := env.ParseAs[envConfig]()
	if err != nil {
		return nil, handleEnvError(err)
	}

	options := Options{
		ID:       id,
		Endpoint: cfg.Endpoint,
		Headers:  cfg.Headers,
		Client:   &http.Client{Timeout: cfg.Timeout},
		Logger:   log,
		Credentials: &ClientCredentials{
			TokenURL:     cfg.TokenURL,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
		},
	}

	if cfg.MinLevel != "" {
		level, err := logkit.ParseLevel(cfg.MinLevel)
		if err != nil {
			return nil, fmt.Errorf("%w: LOGKIT_REMOTE_MIN_LEVEL: %w", ErrInvalidEnvVariable, err)
		}
		options.MinLevel = &level
	}

	return New(options)
}

// ID implements logkit.Adapter.
func (a *Adapter) ID() string {
	return a.id
}

// Log implements logkit.Adapter. Delivery failures are warned on the adapter
// logger and never returned, the event is simply lost.
func (a *Adapter) Log(ctx context.Context, level logkit.Level, tag string, message string) error {
	if a.minLevel != nil && level < *a.minLevel {
		return nil
	}

	if err := a.send(ctx, logkit.NewEvent(level, tag, message, xclock.Now())); err != nil {
		a.log.Warn("Failed to send log", "endpoint", a.endpoint, "error", err)
	}
	return nil
}

func (a *Adapter) send(ctx context.Context, event logkit.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}

	request.Header.Set("User-Agent", userAgentString())
	for key, value := range a.headers {
		request.Header.Set(key, value)
	}

	resp, err := a.client.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	return nil
}

// userAgentString returns the User-Agent string to be used in HTTP requests.
func userAgentString() string {
	return info.AppName + "/" + info.Version
}

func handleEnvError(err error) error {
	var parseErr env.AggregateError
	if errors.As(err, &parseErr) {
		err = parseErr.Errors[0]
	}

	return fmt.Errorf("%w: %w", ErrInvalidEnvVariable, err)
}

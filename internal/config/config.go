// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/mia-platform/logkit"
)

const (
	AdapterTypeRemote    = "remote"
	AdapterTypePubSub    = "pubsub"
	AdapterTypeEventHubs = "eventhubs"
	AdapterTypeWriter    = "writer"

	TypeField     = "type"
	IDField       = "id"
	EndpointField = "endpoint"
	TopicField    = "topic"
	ProjectField  = "project"
	HubField      = "eventHub"
)

var (
	// ErrParsing reports failures that occur while decoding configuration files.
	ErrParsing = errors.New("error parsing")
	// ErrInvalidEnvVariable reports malformed environment variable values.
	ErrInvalidEnvVariable = errors.New("invalid environment value")
)

// File is the content of a logkit configuration file, YAML or JSON.
type File struct {
	Logging  logkit.Partial  `json:"logging" yaml:"logging"`
	Adapters []AdapterConfig `json:"adapters,omitempty" yaml:"adapters,omitempty"`
}

// AdapterConfig declares one adapter to register. Only the fields relevant to
// Type are read.
type AdapterConfig struct {
	Type     string            `json:"type" yaml:"type"`
	ID       string            `json:"id" yaml:"id"`
	Endpoint string            `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Headers  map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	MinLevel *logkit.Level     `json:"minLevel,omitempty" yaml:"minLevel,omitempty"`

	TokenURL     string `json:"tokenUrl,omitempty" yaml:"tokenUrl,omitempty"`
	ClientID     string `json:"clientId,omitempty" yaml:"clientId,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty" yaml:"clientSecret,omitempty"`

	Project string `json:"project,omitempty" yaml:"project,omitempty"`
	Topic   string `json:"topic,omitempty" yaml:"topic,omitempty"`

	ConnectionString string `json:"connectionString,omitempty" yaml:"connectionString,omitempty"`
	Namespace        string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	EventHub         string `json:"eventHub,omitempty" yaml:"eventHub,omitempty"`
}

// validate checks the required fields of the adapter type.
func (c AdapterConfig) validate() error {
	missingFields := []string{}
	if c.ID == "" {
		missingFields = append(missingFields, IDField)
	}

	switch c.Type {
	case AdapterTypeRemote:
		if c.Endpoint == "" {
			missingFields = append(missingFields, EndpointField)
		}
	case AdapterTypePubSub:
		if c.Project == "" {
			missingFields = append(missingFields, ProjectField)
		}
		if c.Topic == "" {
			missingFields = append(missingFields, TopicField)
		}
	case AdapterTypeEventHubs:
		if c.ConnectionString == "" && c.Namespace == "" {
			return fmt.Errorf("adapter %q: one of 'connectionString' or 'namespace' must be present", c.ID)
		}
		if c.Namespace != "" && c.EventHub == "" {
			missingFields = append(missingFields, HubField)
		}
	case AdapterTypeWriter:
	case "":
		missingFields = append(missingFields, TypeField)
	default:
		return fmt.Errorf("adapter %q: unknown value '%s' in '%s'", c.ID, c.Type, TypeField)
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("adapter %q: missing required fields: %s", c.ID, strings.Join(missingFields, ", "))
	}
	return nil
}

// envConfig mirrors logkit.Config; empty variables leave the setting untouched.
type envConfig struct {
	Level                 string `env:"LOGKIT_LEVEL"`
	EnableConsoleLogs     string `env:"LOGKIT_CONSOLE"`
	EnablePerformanceLogs string `env:"LOGKIT_PERFORMANCE"`
	EnableMiddlewareLogs  string `env:"LOGKIT_MIDDLEWARE"`
	FormatTimestamp       string `env:"LOGKIT_TIMESTAMP"`
	ErrorsToCapture       string `env:"LOGKIT_ERRORS_TO_CAPTURE"`
}

// NewFileFromPath decodes the configuration file at path. JSON files are read
// through the same YAML decoder.
func NewFileFromPath(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	config := new(File)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w %q: %w", ErrParsing, path, err)
	}

	ids := make(map[string]struct{}, len(config.Adapters))
	for _, adapter := range config.Adapters {
		if err := adapter.validate(); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrParsing, path, err)
		}
		if _, found := ids[adapter.ID]; found {
			return nil, fmt.Errorf("%w %q: duplicated adapter id %q", ErrParsing, path, adapter.ID)
		}
		ids[adapter.ID] = struct{}{}
	}

	return config, nil
}

// PartialFromEnv reads the LOGKIT_* variables into a partial configuration.
func PartialFromEnv() (logkit.Partial, error) {
	cfg, err := env.ParseAs[envConfig]()
	if err != nil {
		return logkit.Partial{}, err
	}

	var partial logkit.Partial
	errorsList := make([]error, 0)

	if cfg.Level != "" {
		level, err := logkit.ParseLevel(cfg.Level)
		if err != nil {
			errorsList = append(errorsList, fmt.Errorf("%w: LOGKIT_LEVEL: %w", ErrInvalidEnvVariable, err))
		}
		partial.Level = &level
	}

	boolVariables := []struct {
		name  string
		value string
		field **bool
	}{
		{name: "LOGKIT_CONSOLE", value: cfg.EnableConsoleLogs, field: &partial.EnableConsoleLogs},
		{name: "LOGKIT_PERFORMANCE", value: cfg.EnablePerformanceLogs, field: &partial.EnablePerformanceLogs},
		{name: "LOGKIT_MIDDLEWARE", value: cfg.EnableMiddlewareLogs, field: &partial.EnableMiddlewareLogs},
		{name: "LOGKIT_TIMESTAMP", value: cfg.FormatTimestamp, field: &partial.FormatTimestamp},
	}
	for _, variable := range boolVariables {
		if variable.value == "" {
			continue
		}
		enabled, err := strconv.ParseBool(variable.value)
		if err != nil {
			errorsList = append(errorsList, fmt.Errorf("%w: %s: %q is not a boolean", ErrInvalidEnvVariable, variable.name, variable.value))
			continue
		}
		*variable.field = &enabled
	}

	if cfg.ErrorsToCapture != "" {
		levels := make([]logkit.Level, 0)
		for name := range strings.SplitSeq(cfg.ErrorsToCapture, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			level, err := logkit.ParseLevel(name)
			if err != nil {
				errorsList = append(errorsList, fmt.Errorf("%w: LOGKIT_ERRORS_TO_CAPTURE: %w", ErrInvalidEnvVariable, err))
				continue
			}
			levels = append(levels, level)
		}
		partial.ErrorsToCapture = levels
	}

	if len(errorsList) > 0 {
		return logkit.Partial{}, errors.Join(errorsList...)
	}
	return partial, nil
}

// Load merges the configuration file at path, when not empty, with the
// environment, the latter taking precedence.
func Load(path string) (*File, error) {
	file := new(File)
	if path != "" {
		var err error
		if file, err = NewFileFromPath(path); err != nil {
			return nil, err
		}
	}

	partial, err := PartialFromEnv()
	if err != nil {
		return nil, err
	}

	file.Logging = file.Logging.Merge(partial)
	return file, nil
}

// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mia-platform/logkit"
	"github.com/mia-platform/logkit/adapter/eventhubs"
	"github.com/mia-platform/logkit/adapter/pubsub"
	"github.com/mia-platform/logkit/adapter/remote"
	"github.com/mia-platform/logkit/adapter/writer"
	"github.com/mia-platform/logkit/internal/config"
	"github.com/mia-platform/logkit/internal/logger"
	"github.com/mia-platform/logkit/internal/server"
)

const (
	remoteLoggerName = "logkit:remote"
)

var (
	errNoArguments   = errors.New("no message provided")
	errInvalidLevel  = errors.New("invalid level provided")
	errInvalidOutput = errors.New("invalid output format provided")

	// emittableLevels holds the levels accepted by the emit command and their
	// description for command completion.
	emittableLevels = map[string]string{
		"debug": "diagnostic details",
		"info":  "normal operations",
		"warn":  "unexpected but recoverable situations",
		"error": "failures",
	}

	// serverFactory builds the collector, it can be overridden for testing purposes.
	serverFactory = server.NewServer
)

// handleError will do custom print error handling based on the type of error received.
// it will return nil if the command must return 0 exit code, otherwise it will return
// the original error.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errNoArguments):
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return nil
	case errors.Is(err, errInvalidLevel), errors.Is(err, errInvalidOutput):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}

func levelCompletion(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var comps []string
	for name, description := range emittableLevels {
		if strings.HasPrefix(name, toComplete) {
			comps = append(comps, cobra.CompletionWithDesc(name, description))
		}
	}

	return comps, cobra.ShellCompDirectiveNoFileComp
}

type colorsKeyType struct{}

var colorsKey = colorsKeyType{}

// WithColors records in ctx whether the console output of the commands is colored.
func WithColors(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, colorsKey, enabled)
}

func colorsFromContext(ctx context.Context) bool {
	enabled, _ := ctx.Value(colorsKey).(bool)
	return enabled
}

// closer releases the resources of an adapter once its lane is stopped.
type closer func(context.Context) error

// setupLogger builds the Logger described by file, writing its console output to
// out, and registers every declared adapter. The returned shutdown function
// drains the adapters and releases their clients.
func setupLogger(ctx context.Context, file *config.File, out io.Writer) (*logkit.Logger, func(context.Context) error, error) {
	l := logkit.New(
		logkit.WithOutput(out),
		logkit.WithColors(colorsFromContext(ctx)),
		logkit.WithConfig(file.Logging),
	)

	closers := make([]closer, 0, len(file.Adapters))
	shutdown := func(ctx context.Context) error {
		errs := []error{l.Close(ctx)}
		for _, closeFn := range closers {
			errs = append(errs, closeFn(ctx))
		}
		return errors.Join(errs...)
	}

	for _, adapterConfig := range file.Adapters {
		adapter, closeFn, err := newAdapter(ctx, adapterConfig, out)
		if err == nil {
			err = l.RegisterAdapter(adapter)
		}
		if closeFn != nil {
			closers = append(closers, closeFn)
		}
		if err != nil {
			_ = shutdown(ctx)
			return nil, nil, fmt.Errorf("adapter %q: %w", adapterConfig.ID, err)
		}
	}

	return l, shutdown, nil
}

// newAdapter instantiates the adapter declared by cfg. The closer is nil for
// adapters that do not own any client.
func newAdapter(ctx context.Context, cfg config.AdapterConfig, out io.Writer) (logkit.Adapter, closer, error) {
	switch cfg.Type {
	case config.AdapterTypeRemote:
		adapter, err := remote.New(remote.Options{
			ID:       cfg.ID,
			Endpoint: cfg.Endpoint,
			Headers:  cfg.Headers,
			MinLevel: cfg.MinLevel,
			Logger:   logger.FromContext(ctx).WithName(remoteLoggerName).Hclog(),
			Credentials: &remote.ClientCredentials{
				TokenURL:     cfg.TokenURL,
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
			},
		})
		return adapter, nil, err
	case config.AdapterTypePubSub:
		adapter, err := pubsub.NewFromConfig(ctx, cfg.ID, pubsub.Config{ProjectID: cfg.Project, TopicID: cfg.Topic})
		if err != nil {
			return nil, nil, err
		}
		return adapter, func(context.Context) error { return adapter.Close() }, nil
	case config.AdapterTypeEventHubs:
		adapter, err := eventhubs.NewFromConfig(cfg.ID, eventhubs.Config{
			ConnectionString: cfg.ConnectionString,
			Namespace:        cfg.Namespace,
			EventHubName:     cfg.EventHub,
		})
		if err != nil {
			return nil, nil, err
		}
		return adapter, adapter.Close, nil
	case config.AdapterTypeWriter:
		return writer.New(cfg.ID, out), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown adapter type %q", cfg.Type)
	}
}

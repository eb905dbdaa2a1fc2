// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mia-platform/logkit"
	"github.com/mia-platform/logkit/internal/config"
	"github.com/mia-platform/logkit/internal/logger"
	"github.com/mia-platform/logkit/internal/server"
)

const (
	outputYAML = "yaml"
	outputJSON = "json"

	serveLoggerName     = "logkit:serve"
	serveShutdownPeriod = 10 * time.Second
)

// emitOptions holds the options set for the current emit function.
type emitOptions struct {
	configPath    string
	level         logkit.Level
	tag           string
	message       []string
	extraAdapters []config.AdapterConfig
	timeout       time.Duration
	out           io.Writer
}

// validate validates the emit options and returns an error if something is wrong.
func (o *emitOptions) validate() error {
	if len(o.message) == 0 {
		return errNoArguments
	}

	if !o.level.Gateable() || o.level == logkit.SILENT {
		return fmt.Errorf("%w: %s", errInvalidLevel, o.level)
	}

	return nil
}

// execute logs the message and waits for every adapter to receive it.
func (o *emitOptions) execute(ctx context.Context) error {
	file, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	file.Adapters = append(file.Adapters, o.extraAdapters...)

	l, shutdown, err := setupLogger(ctx, file, o.out)
	if err != nil {
		return err
	}

	args := make([]any, len(o.message))
	for idx, part := range o.message {
		args[idx] = part
	}
	l.Log(o.level, o.tag, args...)

	shutdownCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return shutdown(shutdownCtx)
}

// serveOptions holds the options set for the current serve function.
type serveOptions struct {
	configPath    string
	out           io.Writer
	serverFactory func(context.Context, *logkit.Logger) (server.Server, error)
}

// execute runs the collector until ctx is canceled or the process is signaled.
func (o *serveOptions) execute(ctx context.Context) error {
	log := logger.FromContext(ctx).WithName(serveLoggerName)

	file, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	sink, shutdown, err := setupLogger(ctx, file, o.out)
	if err != nil {
		return err
	}

	srv, err := o.serverFactory(ctx, sink)
	if err != nil {
		_ = shutdown(context.WithoutCancel(ctx))
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	log.Info("collector started", "adapters", sink.Adapters())
	select {
	case err = <-errChan:
	case <-ctx.Done():
		log.Info("stopping collector")
		err = srv.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serveShutdownPeriod)
	defer cancel()
	if shutdownErr := shutdown(shutdownCtx); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	return err
}

// effectiveConfig is the document printed by the config command.
type effectiveConfig struct {
	Logging  logkit.Config          `json:"logging" yaml:"logging"`
	Adapters []config.AdapterConfig `json:"adapters" yaml:"adapters"`
}

// configOptions holds the options set for the current config function.
type configOptions struct {
	configPath string
	output     string
	out        io.Writer
}

// validate validates the config options and returns an error if something is wrong.
func (o *configOptions) validate() error {
	if o.output != outputYAML && o.output != outputJSON {
		return fmt.Errorf("%w: %s", errInvalidOutput, o.output)
	}
	return nil
}

// execute prints the configuration resolved from the defaults, the file and the environment.
func (o *configOptions) execute() error {
	file, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	document := effectiveConfig{
		Logging:  logkit.New(logkit.WithOutput(nil), logkit.WithConfig(file.Logging)).Config(),
		Adapters: file.Adapters,
	}
	if document.Adapters == nil {
		document.Adapters = []config.AdapterConfig{}
	}

	if o.output == outputJSON {
		encoder := json.NewEncoder(o.out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(document)
	}

	encoder := yaml.NewEncoder(o.out)
	encoder.SetIndent(2)
	if err := encoder.Encode(document); err != nil {
		return err
	}
	return encoder.Close()
}

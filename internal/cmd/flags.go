// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mia-platform/logkit"
	"github.com/mia-platform/logkit/internal/config"
)

const (
	configPathFlagName  = "config"
	configPathFlagShort = "c"
	configPathFlagUsage = "Path to a YAML or JSON file with the logging configuration and the adapters to register"

	levelFlagName  = "level"
	levelFlagShort = "l"
	levelFlagUsage = "Level of the emitted event (possible values: debug, info, warn, error)"

	tagFlagName  = "tag"
	tagFlagShort = "t"
	tagFlagUsage = "Tag of the emitted event"
	defaultTag   = "CLI"

	remoteEndpointFlagName  = "remote-endpoint"
	remoteEndpointFlagUsage = "If set, also sends the event as JSON to this HTTP endpoint"

	headerFlagName  = "header"
	headerFlagUsage = "Header added to the requests of the remote endpoint, in the key=value form. Can be specified multiple times."

	timeoutFlagName  = "timeout"
	timeoutFlagUsage = "Maximum time to wait for the adapters to receive the event"
	defaultTimeout   = 10 * time.Second

	outputFlagName  = "output"
	outputFlagShort = "o"
	outputFlagUsage = "Output format (possible values: yaml, json)"

	remoteFlagAdapterID = "cli-remote"
)

// emitFlags holds the flags for the "emit" command.
type emitFlags struct {
	configPath     string
	level          string
	tag            string
	remoteEndpoint string
	headers        map[string]string
	timeout        time.Duration
}

// addFlags adds the cli flags to the cobra command.
func (f *emitFlags) addFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, configPathFlagName, configPathFlagShort, "", configPathFlagUsage)
	flags.StringVarP(&f.level, levelFlagName, levelFlagShort, strings.ToLower(logkit.INFO.String()), levelFlagUsage)
	flags.StringVarP(&f.tag, tagFlagName, tagFlagShort, defaultTag, tagFlagUsage)
	flags.StringVar(&f.remoteEndpoint, remoteEndpointFlagName, "", remoteEndpointFlagUsage)
	flags.StringToStringVar(&f.headers, headerFlagName, nil, headerFlagUsage)
	flags.DurationVar(&f.timeout, timeoutFlagName, defaultTimeout, timeoutFlagUsage)

	_ = cmd.RegisterFlagCompletionFunc(levelFlagName, levelCompletion)
}

// toOptions converts the emit flags to emitOptions enriching it with the passed arguments.
func (f *emitFlags) toOptions(cmd *cobra.Command, args []string) (*emitOptions, error) {
	level, err := logkit.ParseLevel(f.level)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errInvalidLevel, f.level)
	}

	adapters := make([]config.AdapterConfig, 0, 1)
	if f.remoteEndpoint != "" {
		adapters = append(adapters, config.AdapterConfig{
			Type:     config.AdapterTypeRemote,
			ID:       remoteFlagAdapterID,
			Endpoint: f.remoteEndpoint,
			Headers:  f.headers,
		})
	}

	return &emitOptions{
		configPath:    f.configPath,
		level:         level,
		tag:           f.tag,
		message:       args,
		extraAdapters: adapters,
		timeout:       f.timeout,
		out:           cmd.OutOrStdout(),
	}, nil
}

// serveFlags holds the flags for the "serve" command.
type serveFlags struct {
	configPath string
}

// addFlags adds the cli flags to the cobra command.
func (f *serveFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, configPathFlagName, configPathFlagShort, "", configPathFlagUsage)
}

// toOptions converts the serve flags to serveOptions.
func (f *serveFlags) toOptions(cmd *cobra.Command) *serveOptions {
	return &serveOptions{
		configPath:    f.configPath,
		out:           cmd.OutOrStdout(),
		serverFactory: serverFactory,
	}
}

// configFlags holds the flags for the "config" command.
type configFlags struct {
	configPath string
	output     string
}

// addFlags adds the cli flags to the cobra command.
func (f *configFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, configPathFlagName, configPathFlagShort, "", configPathFlagUsage)
	cmd.Flags().StringVarP(&f.output, outputFlagName, outputFlagShort, outputYAML, outputFlagUsage)
}

// toOptions converts the config flags to configOptions.
func (f *configFlags) toOptions(cmd *cobra.Command) *configOptions {
	return &configOptions{
		configPath: f.configPath,
		output:     strings.ToLower(f.output),
		out:        cmd.OutOrStdout(),
	}
}

// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	emitCmdUsage = "emit MESSAGE..."
	emitCmdShort = "emit a log event through the configured adapters"
	emitCmdLong  = `Emit a log event through the configured adapters.
	The event is printed on the console, when enabled, and handed to every adapter
	declared in the configuration file or through the flags. The command waits for
	every adapter to receive the event before exiting.

	The available adapter types are:
	- remote: POST the event as JSON to an HTTP endpoint
	- pubsub: publish the event on a Google Cloud Pub/Sub topic
	- eventhubs: send the event to an Azure Event Hub
	- writer: print the event as indented JSON on stdout`

	emitCmdExample = `# Emit a warning with a custom tag
	logkit emit --level warn --tag Checkout "payment took too long"

	# Forward an error to a collector
	logkit emit -l error --remote-endpoint http://localhost:3000/logs "out of stock"`

	serveCmdUsage = "serve"
	serveCmdShort = "start a collector accepting log events over HTTP"
	serveCmdLong  = `Start a collector accepting log events over HTTP.
	The collector accepts the events sent by the remote adapter on the /logs route,
	either one at a time or in batches, and re-emits them on its own console and
	configured adapters. The listening address is read from the HTTP_HOST and
	HTTP_PORT environment variables.`

	serveCmdExample = `# Start a collector on the default port
	logkit serve

	# Start a collector that forwards every event to Pub/Sub
	logkit serve --config collector.yaml`

	configCmdUsage = "config"
	configCmdShort = "print the effective logging configuration"
	configCmdLong  = `Print the effective logging configuration.
	The configuration file, when provided, is merged over the defaults and the
	LOGKIT_* environment variables are applied last.`

	configCmdExample = `# Print the configuration as JSON
	logkit config --config logkit.yaml --output json`
)

// EmitCmd returns the Cobra command that emits a single log event.
func EmitCmd() *cobra.Command {
	flags := &emitFlags{}
	cmd := &cobra.Command{
		Use:     emitCmdUsage,
		Short:   heredoc.Doc(emitCmdShort),
		Long:    heredoc.Doc(emitCmdLong),
		Example: heredoc.Doc(emitCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions(cmd, args)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// ServeCmd returns the Cobra command that runs the log collector.
func ServeCmd() *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:     serveCmdUsage,
		Short:   heredoc.Doc(serveCmdShort),
		Long:    heredoc.Doc(serveCmdLong),
		Example: heredoc.Doc(serveCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := flags.toOptions(cmd)
			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// ConfigCmd returns the Cobra command that prints the effective configuration.
func ConfigCmd() *cobra.Command {
	flags := &configFlags{}
	cmd := &cobra.Command{
		Use:     configCmdUsage,
		Short:   heredoc.Doc(configCmdShort),
		Long:    heredoc.Doc(configCmdLong),
		Example: heredoc.Doc(configCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := flags.toOptions(cmd)
			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

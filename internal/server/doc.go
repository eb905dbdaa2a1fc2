// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package server contains the log collector of the logkit CLI.
// It sets up the HTTP server using the Fiber framework, accepts the events posted by
// the remote adapter and re-emits them on a local logkit Logger, exposing the usual
// health check and status routes.
package server

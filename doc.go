// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logkit is a leveled logging facility for client applications.
// Log calls are gated by a configurable threshold, written to the console and
// fanned out to every registered Adapter, each one isolated from the others.
// Two auxiliary channels (performance and middleware) and a set of timing helpers
// share the same configuration and formatting pipeline.
package logkit

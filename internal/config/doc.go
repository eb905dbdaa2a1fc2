// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package config loads the logkit configuration used by the CLI from a YAML or
// JSON file and from LOGKIT_* environment variables.
package config

// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger holds the ambient diagnostics logger of the logkit CLI and
// collector, an hclog wrapper carried through context helpers.
package logger

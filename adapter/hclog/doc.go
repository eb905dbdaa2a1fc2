// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package hclog forwards log events to a hashicorp/go-hclog logger.
package hclog

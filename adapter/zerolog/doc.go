// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package zerolog forwards log events to a zerolog logger.
package zerolog

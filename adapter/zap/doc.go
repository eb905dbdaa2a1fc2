// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package zap forwards log events to a zap logger.
package zap

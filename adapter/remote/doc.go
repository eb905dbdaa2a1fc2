// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package remote ships log events as JSON to an HTTP endpoint.
// Delivery is best effort: failures are only warned about.
package remote

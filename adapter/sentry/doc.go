// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package sentry forwards log events to Sentry: captured levels become Sentry
// messages, every other level is kept as a breadcrumb.
package sentry

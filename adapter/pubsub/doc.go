// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package pubsub publishes log events on a Google Cloud Pub/Sub topic.
package pubsub

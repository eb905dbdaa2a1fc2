// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package eventhubs sends log events to an Azure Event Hub.
package eventhubs

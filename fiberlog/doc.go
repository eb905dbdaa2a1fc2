// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package fiberlog provides a gofiber middleware reporting every request on the
// logkit middleware channel.
package fiberlog

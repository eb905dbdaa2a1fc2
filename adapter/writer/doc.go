// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package writer dumps log events as indented JSON on an io.Writer.
// It is mostly useful for debugging adapter pipelines.
package writer

// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package capture adapts crash reporters that distinguish recorded errors from
// plain breadcrumb logs, such as Firebase Crashlytics.
package capture

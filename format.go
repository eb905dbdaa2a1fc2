// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logkit

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	timestampLayout = "2006-01-02 15:04:05"

	// Unserializable replaces any argument that cannot be rendered.
	Unserializable = "<unserializable>"
)

// FormatTimestamp renders t in local time as YYYY-MM-DD HH:mm:ss.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(timestampLayout)
}

// FormatMessage renders every argument and joins them with a single space.
// Strings and byte slices are kept as text, errors are rendered with their
// message and any other value is encoded as indented JSON.
func FormatMessage(args ...any) string {
	builder := new(strings.Builder)
	for i, arg := range args {
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(formatArg(arg))
	}
	return builder.String()
}

func formatArg(arg any) (rendered string) {
	defer func() {
		// custom MarshalJSON implementations may panic
		if r := recover(); r != nil {
			rendered = Unserializable
		}
	}()

	switch v := arg.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case []byte:
		return string(v)
	default:
		return marshalIndent(v)
	}
}

func marshalIndent(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Unserializable
	}
	return string(data)
}

// File created by olandr (c) 2025.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

// Package logging builds the structured logger of the pollwatch command.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
)

// Setup returns a logger writing to w at the given level ("debug", "info",
// "warn" or "error") in the given format ("text", "json" or "logfmt").
func Setup(w io.Writer, level, format string) (*slog.Logger, error) {
	var formatter log.Formatter
	switch format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	case "text", "":
		formatter = log.TextFormatter
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	lvl := log.InfoLevel
	if level != "" {
		var err error
		if lvl, err = log.ParseLevel(level); err != nil {
			return nil, err
		}
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "pollwatch",
		Formatter:       formatter,
		Level:           lvl,
	})
	return slog.New(handler), nil
}

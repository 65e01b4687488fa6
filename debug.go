// File created by olandr (c) 2025.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

package pollwatch

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// NOTE(olandr): set POLLWATCH_DEBUG to any value to get every poller decision
// printed to stderr when no Logger is configured.
func defaultLogger() *slog.Logger {
	if os.Getenv("POLLWATCH_DEBUG") == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Prefix:          "pollwatch",
		Level:           log.DebugLevel,
	})
	return slog.New(handler)
}

// Package cli implements the flamelink command-line interface.
//
// Commands compose flames into WGSL kernels, inspect the variation catalog
// and the shared library, render the library dependency graph, serve the
// HTTP API and manage the local cache. The CLI is built using cobra and
// logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - compose: Link a flame's variations into a kernel (optionally SPIR-V)
//   - variations, library: List the catalog and library tables
//   - browse: Interactive catalog browser
//   - graph: Render the library dependency graph as DOT, SVG, PNG or JSON
//   - serve: Run the HTTP API
//   - cache: Manage the local kernel cache
//
// # Configuration
//
// Defaults are read from $XDG_CONFIG_HOME/flamelink/config.toml (or the
// file named by --config). Flags always win over the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at debug level along with the elapsed time, rounded to the
// millisecond. Example output: "Composed 3 transforms (12ms)"
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

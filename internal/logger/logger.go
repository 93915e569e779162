// Package logger provides charmbracelet/log loggers with per-component prefixes.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to stderr so TUI output on stdout stays clean.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// SetVerbose raises the global level to debug.
func SetVerbose(verbose bool) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}
